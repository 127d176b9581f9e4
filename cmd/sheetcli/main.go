// Command sheetcli is a small interactive shell over package sheet.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func main() {
	if err := Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
