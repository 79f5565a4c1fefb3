/*
Msmakevcb builds a lexicon and rule-table file from the built-in word
lists and whatever rule tables the running binary's Parser has defined,
and writes the serialized result to disk.

Usage:

	msmakevcb [flags]

The flags are:

	-o, --out FILE
		Destination file for the serialized table. Defaults to "msp.dat"
		in the current working directory.

A downstream msparse invocation loads this file instead of rebuilding the
lexicon from source on every run.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/AlCramer/msparse"
	"github.com/AlCramer/msparse/internal/lexbuild"
	"github.com/AlCramer/msparse/internal/serial"
)

const (
	ExitSuccess = iota
	ExitWriteError
)

var (
	returnCode int     = ExitSuccess
	outFile    *string = pflag.StringP("out", "o", "msp.dat", "Destination file for the serialized lexicon and rule tables")
)

func main() {
	defer func() { os.Exit(returnCode) }()
	pflag.Parse()

	lx := lexbuild.Build()
	p := msparse.New(lx)

	payload := serial.NewWriter()
	p.Serialize(payload)

	data, err := serial.Marshal(serial.Envelope{
		FormatVersion: msparse.Version,
		Payload:       payload.Bytes(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not encode table file: %s\n", err.Error())
		returnCode = ExitWriteError
		return
	}

	if err := os.WriteFile(*outFile, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not write %q: %s\n", *outFile, err.Error())
		returnCode = ExitWriteError
		return
	}
	fmt.Printf("wrote %q\n", *outFile)
}
