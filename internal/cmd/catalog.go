package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/facet"
	"github.com/nrslib/takt/internal/tui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [<facet-type>]",
	Short: "List facets (personas, policies, knowledge, instructions, output-contracts)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

var catalogTypes = []facet.Type{
	facet.Persona, facet.Policy, facet.Knowledge, facet.Instruction, facet.OutputContract,
}

func runCatalog(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}

	typ := facet.Persona
	if len(args) == 1 {
		typ = facet.Type(args[0])
		valid := false
		for _, t := range catalogTypes {
			if t == typ {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown facet type %q", args[0])
		}
	}

	entries, err := a.Resolver.List(typ)
	if err != nil {
		return err
	}
	return tui.RunCatalog(a.Resolver, typ, entries)
}
