// takt runs iterative multi-step LLM agent pieces against a repository.
package main

import (
	"os"

	"github.com/nrslib/takt/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
