// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input   string `flag:"i" usage:"input assembly file"`
	Output  string `flag:"o" usage:"output .ch8 file (default: input name with .ch8 extension)"`
	Listing string `flag:"l" usage:"listing file to write"`
	Symbols string `flag:"sym" usage:"symbol file to write"`
	Batch   string `flag:"batch" usage:"batch process files matching pattern (e.g. *.asm)"`
}

// Flags contains behavior options.
type Flags struct {
	Offset uint `flag:"offset" usage:"address the program is loaded at" default:"512"`
	Verify bool `flag:"verify" usage:"verify output by decoding all emitted instructions"`
	Debug  bool `flag:"debug" usage:"enable debug logging"`
	Quiet  bool `flag:"q" usage:"quiet mode"`
}

// Program options of the assembler.
type Program struct {
	Parameters
	Flags
}
