// Command goshape decodes and encodes JSON/YAML documents against a catalogue
// of built-in shapes.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
