package main

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/input-output-hk/catalyst-forge-libs/wagon"
)

func runGet(c *cli.Context) (err error) {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	w, closeSession, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSession(); err == nil {
			err = cerr
		}
	}()

	result, err := w.Fetch(c.Context, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}
	if !result.Found {
		fmt.Fprintf(c.App.Writer, "%s not found, nothing downloaded\n", c.Args().Get(0))
		return nil
	}
	fmt.Fprintf(c.App.Writer, "%s -> %s (%d bytes)\n", c.Args().Get(0), c.Args().Get(1), result.Size)
	return nil
}

func runPut(c *cli.Context) (err error) {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	w, closeSession, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSession(); err == nil {
			err = cerr
		}
	}()

	if err := w.Put(c.Context, c.Args().Get(0), c.Args().Get(1)); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s -> %s\n", c.Args().Get(0), c.Args().Get(1))
	return nil
}

func runList(c *cli.Context) (err error) {
	w, closeSession, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSession(); err == nil {
			err = cerr
		}
	}()

	objects, err := w.ListAllObjects(c.Context)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(objects))
	for k := range objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(c.App.Writer, "%s\t%d\n", k, objects[k].Size)
	}
	return nil
}

func runLs(c *cli.Context) (err error) {
	dir := "."
	if c.NArg() > 0 {
		dir = c.Args().Get(0)
	}
	w, closeSession, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSession(); err == nil {
			err = cerr
		}
	}()

	names, err := w.GetFileList(c.Context, dir)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(c.App.Writer, n)
	}
	return nil
}

func runSchemes(c *cli.Context) error {
	for _, s := range wagon.Schemes() {
		fmt.Fprintln(c.App.Writer, s)
	}
	return nil
}
