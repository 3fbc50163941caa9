// Package hashids encodes sequences of unsigned integers into short,
// non-sequential strings and decodes them back.
//
// A Hashids value is built once from a salt, an alphabet and a minimum
// output length. The same configuration always produces the same output,
// and only a caller that knows the salt can predict it. This is
// obfuscation, not encryption.
//
// Configuration:
//
//	h, err := hashids.New(hashids.Options{Salt: "this is my salt"})
//	if err != nil {
//		return err
//	}
//	id := h.Encode([]uint64{1, 2, 3}) // "laHquq"
//	nums, err := h.Decode(id)         // [1 2 3]
//
// A *Hashids is immutable after construction. Every Encode and Decode call
// works on its own scratch copy of the alphabet, so one value can be shared
// by any number of goroutines.
package hashids
