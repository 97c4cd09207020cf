// Command owl-demo is a minimal embedding host: it starts a Display,
// centers every window it sees created, and logs window creation,
// window destruction and output connection. Window placement policy
// belongs to the host, not the core (spec §1 "Out of scope... the embedding host's window-
// placement policy"), so this is deliberately the simplest policy that
// could work, not a tiling manager.
package main

import (
	"fmt"
	"os"

	"github.com/tonybanters/owl"
)

func main() {
	fs, flags := owl.FlagSet("owl-demo")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	d, err := owl.NewDisplay(flags.Options()...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "owl-demo:", err)
		os.Exit(1)
	}
	defer d.Destroy()

	fmt.Println("owl-demo: listening on", d.GetSocketName())

	d.SetWindowCallback(owl.WindowEventCreate, func(d *owl.Display, w *owl.Window) {
		outputs := d.Outputs()
		if len(outputs) > 0 {
			out := outputs[0]
			x := out.X() + (out.Width()-w.Width())/2
			y := out.Y() + (out.Height()-w.Height())/2
			w.Move(x, y)
		}
		fmt.Printf("owl-demo: window created: %q (%dx%d)\n", w.Title(), w.Width(), w.Height())
	})

	d.SetWindowCallback(owl.WindowEventDestroy, func(d *owl.Display, w *owl.Window) {
		fmt.Printf("owl-demo: window destroyed: %q\n", w.Title())
	})

	d.SetOutputCallback(owl.OutputEventConnect, func(d *owl.Display, name string) {
		fmt.Println("owl-demo: output connected:", name)
	})

	d.Run()
}
