// ABOUTME: Command-line controller for a running tone generator
// ABOUTME: Finds generators via mDNS and queries or sets frequency and volume
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/discovery"
	"github.com/Resonate-Protocol/resonate-tone/internal/version"
	"github.com/Resonate-Protocol/resonate-tone/pkg/protocol"
	"github.com/urfave/cli"
)

var errNoChange = errors.New("set needs --freq and/or --volume")

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatalf("tonectl: %v", err)
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "tonectl"
	app.Usage = "control a running resonate-tone generator"
	app.Version = version.Version
	app.Writer = out
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "addr",
			Usage: "Generator address host:port (default: first found via mDNS)",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "mDNS discovery timeout",
			Value: 5 * time.Second,
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "status",
			Usage:  "print the generator status",
			Action: runStatus,
		},
		{
			Name:  "set",
			Usage: "change frequency and/or volume",
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "freq", Usage: "Frequency in Hz"},
				cli.Float64Flag{Name: "volume", Usage: "Linear volume 0..1"},
			},
			Action: runSet,
		},
		{
			Name:   "discover",
			Usage:  "list generators advertised on the local network",
			Action: runDiscover,
		},
	}
	return app
}

func runStatus(c *cli.Context) error {
	client, err := connect(c)
	if err != nil {
		return err
	}
	defer client.Close()

	st, err := client.Status()
	if err != nil {
		return err
	}
	printStatus(c.App.Writer, client.Hello().Name, st)
	return nil
}

func runSet(c *cli.Context) error {
	req, err := buildRequest(c)
	if err != nil {
		return err
	}

	client, err := connect(c)
	if err != nil {
		return err
	}
	defer client.Close()

	st, err := client.Set(req)
	if err != nil {
		return err
	}
	printStatus(c.App.Writer, client.Hello().Name, st)
	return nil
}

func runDiscover(c *cli.Context) error {
	mgr := discovery.NewManager(discovery.Config{})
	defer mgr.Stop()

	if err := mgr.Browse(); err != nil {
		return fmt.Errorf("failed to browse: %w", err)
	}

	seen := make(map[string]bool)
	deadline := time.After(c.GlobalDuration("timeout"))
	for {
		select {
		case server := <-mgr.Servers():
			if seen[server.Addr()] {
				continue
			}
			seen[server.Addr()] = true
			fmt.Fprintf(c.App.Writer, "%s\tws://%s%s\t%s\n", server.Name, server.Addr(), server.Path, server.ID)
		case <-deadline:
			if len(seen) == 0 {
				return errors.New("no tone generator found")
			}
			return nil
		}
	}
}

// buildRequest turns the set flags into a ToneSet; unset flags are omitted
func buildRequest(c *cli.Context) (protocol.ToneSet, error) {
	var req protocol.ToneSet
	if c.IsSet("freq") {
		hz := c.Float64("freq")
		req.Frequency = &hz
	}
	if c.IsSet("volume") {
		v := c.Float64("volume")
		req.Volume = &v
	}
	if req.Frequency == nil && req.Volume == nil {
		return req, errNoChange
	}
	return req, nil
}

func connect(c *cli.Context) (*protocol.Client, error) {
	if addr := c.GlobalString("addr"); addr != "" {
		return protocol.Dial(addr, "")
	}

	timeout := c.GlobalDuration("timeout")
	mgr := discovery.NewManager(discovery.Config{})
	defer mgr.Stop()

	if err := mgr.Browse(); err != nil {
		return nil, fmt.Errorf("failed to browse: %w", err)
	}

	select {
	case server := <-mgr.Servers():
		return protocol.Dial(server.Addr(), server.Path)
	case <-time.After(timeout):
		return nil, fmt.Errorf("no tone generator found after %v", timeout)
	}
}

func printStatus(w io.Writer, name string, st protocol.ToneStatus) {
	fmt.Fprintf(w, "%s: %.1f Hz, volume %.2f, %s\n", name, st.Frequency, st.Volume, st.State)
	fmt.Fprintf(w, "  clock    %s\n", st.Clock)
	fmt.Fprintf(w, "  refills  %d (misses %d, overruns %d)\n", st.Refills, st.Misses, st.Overruns)
	fmt.Fprintf(w, "  refill   last %dus, max %dus, budget %dus\n", st.LastRefillUs, st.MaxRefillUs, st.BudgetUs)
}
