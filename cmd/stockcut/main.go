// StockCut: one-dimensional cutting stock optimizer.
//
// Cuts demanded lengths from parent rolls or bars of one width using as few
// parents as possible, with either a direct integer model or column
// generation.
//
// Build:
//   go build -o stockcut ./cmd/stockcut
//
// Example:
//   stockcut solve -d "10x30" -w 100 -v 1

package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/golang/glog"

	"github.com/piwi3910/StockCut/internal/cli"
)

func main() {
	// Log to stderr unless the user asks for log files.
	_ = goflag.Set("logtostderr", "true")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand(os.Stdout).ExecuteContext(ctx)
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, "stockcut:", err)
		os.Exit(1)
	}
}
