package main

import (
	"errors"
	"fmt"

	"hashids.local/hashids"
)

// 下面几类错误在 run 里按 C 版命令行的原文打印
type invalidNumberError struct{ arg string }

func (e *invalidNumberError) Error() string { return "invalid number: " + e.arg }

type invalidHashError struct{ arg string }

func (e *invalidHashError) Error() string { return "invalid hash: " + e.arg }

type invalidMinLengthError struct{ n int }

func (e *invalidMinLengthError) Error() string {
	return fmt.Sprintf("invalid minimum length: %d", e.n)
}

// userMessage 把错误转成打印到 stderr 的一行
func userMessage(err error) string {
	var (
		numErr  *invalidNumberError
		hashErr *invalidHashError
		minErr  *invalidMinLengthError
	)
	switch {
	case errors.As(err, &numErr):
		return "Invalid number: " + numErr.arg
	case errors.As(err, &hashErr):
		return "Hashids: Invalid hash: " + hashErr.arg
	case errors.As(err, &minErr):
		return fmt.Sprintf("Invalid minimum length: %d", minErr.n)
	case errors.Is(err, hashids.ErrAlphabetTooShort):
		return "Hashids: Alphabet is too short"
	case errors.Is(err, hashids.ErrAlphabetHasSpace):
		return "Hashids: Alphabet contains whitespace characters"
	case errors.Is(err, hashids.ErrInvalidSeparators):
		return "Hashids: Separators leave no usable alphabet"
	}
	return err.Error()
}
