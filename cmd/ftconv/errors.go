package main

import "errors"

var (
	ErrNoOutputDir     = errors.New("an output directory is required when converting files")
	ErrOverwriteInput  = errors.New("output would overwrite its input")
	ErrDuplicateOutput = errors.New("two inputs map to the same output file")
)
