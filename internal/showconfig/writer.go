package showconfig

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"
)

// Output formats
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// WriterOptions configures the writer
type WriterOptions struct {
	Format     string
	OutputFile string
	// Profile is the active profile, printed in the text header
	Profile string
	// Out receives the output when no file is set, os.Stdout by default
	Out io.Writer
}

// Writer prints collected entries
type Writer struct {
	opts WriterOptions
}

// NewWriter creates a new writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Writer{opts: opts}
}

// Write writes entries to the configured output
func (w *Writer) Write(entries []Entry) error {
	if w.opts.OutputFile == "" {
		return w.write(w.opts.Out, entries)
	}

	f, err := os.Create(w.opts.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	return w.write(f, entries)
}

func (w *Writer) write(out io.Writer, entries []Entry) error {
	var (
		data []byte
		err  error
	)
	switch w.opts.Format {
	case FormatText:
		return w.writeText(out, entries)
	case FormatYAML:
		data, err = yaml.Marshal(entries)
	case FormatJSON:
		data, err = json.MarshalIndent(entries, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported output format %q", w.opts.Format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func (w *Writer) writeText(out io.Writer, entries []Entry) error {
	profile := w.opts.Profile
	if profile == "" {
		profile = "prod"
	}
	if _, err := fmt.Fprintf(out, "Current Profile: %s\n", profile); err != nil {
		return err
	}

	header := ""
	for i, e := range entries {
		group := "Runtime Configuration:"
		if e.Profile != "" {
			group = fmt.Sprintf("Profile %q Configuration:", e.Profile)
		}
		if i == 0 || group != header {
			header = group
			if _, err := fmt.Fprintln(out, header); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(out, "\t%s =  %s (%s)\n", e.Name, e.Value, e.Source); err != nil {
			return err
		}
	}
	return nil
}
