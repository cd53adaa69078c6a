package main

import (
	"fmt"
	"text/tabwriter"
)

func runTypes(a *app, args []string) error {
	var supportedOnly bool

	flagSet := newCommandFlags("types")
	flagSet.BoolVarP(&supportedOnly, "supported", "s", false, "only list codes the codec implements")
	if done, err := a.parseCommandFlags(flagSet, args); done || err != nil {
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("types takes no positional arguments, got %q", flagSet.Arg(0))
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(a.stdout, "protocol: %s\n", a.codec.Protocol())
	fmt.Fprintln(tw, "CODE\tNAME\tKIND")
	for _, info := range a.codec.ListTypes() {
		if supportedOnly && !info.Tag.Supported() {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", info.Code, info.Name, info.Tag)
	}
	return tw.Flush()
}
