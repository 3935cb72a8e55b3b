// callreplay replays a captured AMI event stream through the call-model
// engine and prints every emitted call event as a JSON line. Useful for
// turning field captures into reproducible bug reports. The -sanitize
// mode scrubs secrets and phone numbers from a capture in place.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mfinn/callmodel/internal/asterisk"
	"github.com/mfinn/callmodel/internal/callmodel"
)

func main() {
	file := flag.String("file", "", "AMI capture file to replay (- for stdin)")
	verbose := flag.Bool("v", false, "Log engine internals to stderr")
	sanitize := flag.String("sanitize", "", "Sanitize a capture file in-place (keeps .bak)")
	flag.Parse()

	if *sanitize != "" {
		if err := sanitizeFile(*sanitize); err != nil {
			fmt.Fprintf(os.Stderr, "sanitize error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("sanitized:", *sanitize)
		return
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "error: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := replay(*file, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func replay(path string, verbose bool) error {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening capture: %w", err)
		}
		defer f.Close()
		in = f
	}

	log := zap.NewNop()
	if verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}

	driver := asterisk.NewDriver(log)
	modeler := callmodel.New(driver, callmodel.WithLogger(log))
	driver.Bind(modeler)

	enc := json.NewEncoder(os.Stdout)
	modeler.AddListener(callmodel.ListenerFunc(func(ev callmodel.Event) {
		printEvent(enc, ev)
	}))

	parser := asterisk.NewParser(in)
	for {
		evt, ok := parser.Next()
		if !ok {
			return nil
		}
		driver.HandleEvent(evt)
	}
}

type line struct {
	Event  string           `json:"event"`
	CallID int              `json:"call_id,omitempty"`
	State  string           `json:"state,omitempty"`
	Cause  string           `json:"cause,omitempty"`
	Number string           `json:"number,omitempty"`
	Calls  []map[string]any `json:"calls,omitempty"`
}

func printEvent(enc *json.Encoder, ev callmodel.Event) {
	switch ev.Kind {
	case callmodel.EventIncoming, callmodel.EventDisconnected:
		enc.Encode(line{
			Event:  ev.Kind.String(),
			CallID: ev.Call.ID,
			State:  ev.Call.State.String(),
			Cause:  ev.Call.Cause.String(),
			Number: ev.Call.Number,
		})
	case callmodel.EventUpdated:
		out := line{Event: ev.Kind.String()}
		for _, call := range ev.Calls {
			entry := map[string]any{
				"call_id": call.ID,
				"state":   call.State.String(),
			}
			if len(call.ChildIDs) > 0 {
				entry["child_call_ids"] = call.ChildIDs
			}
			out.Calls = append(out.Calls, entry)
		}
		enc.Encode(out)
	case callmodel.EventPostDial:
		enc.Encode(line{
			Event:  ev.Kind.String(),
			CallID: ev.PostDial.CallID,
			State:  ev.PostDial.State.String(),
		})
	}
}

var (
	phonePattern    = regexp.MustCompile(`\b1?\d{10}\b`)
	secretPattern   = regexp.MustCompile(`(?i)(Secret:\s*).+`)
	passwordPattern = regexp.MustCompile(`(?i)(Password:\s*).+`)
)

func sanitizeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	bakPath := path + ".bak"
	if err := os.WriteFile(bakPath, data, 0o644); err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		l = secretPattern.ReplaceAllString(l, "${1}REDACTED")
		l = passwordPattern.ReplaceAllString(l, "${1}REDACTED")
		if strings.Contains(l, "CallerID") || strings.Contains(l, "ConnectedLine") {
			l = phonePattern.ReplaceAllString(l, "15550001234")
		}
		lines[i] = l
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}
