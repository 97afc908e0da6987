package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/cosparse/info"
	"github.com/tsawler/cosparse/reader"
)

// infoReport is what the info command prints.
type infoReport struct {
	File      string         `json:"file"`
	Header    string         `json:"header"`
	Version   string         `json:"version"`
	Objects   int            `json:"objects"`
	Encrypted bool           `json:"encrypted"`
	Repairs   int            `json:"repairs"`
	Metadata  *info.Metadata `json:"metadata"`
}

func newInfoReport(path string, r *reader.Reader) (*infoReport, error) {
	meta, err := r.Metadata()
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return &infoReport{
		File:      path,
		Header:    r.Header(),
		Version:   r.Version().String(),
		Objects:   len(r.Objects()),
		Encrypted: r.IsEncrypted(),
		Repairs:   r.Diagnostics().Repairs(),
		Metadata:  meta,
	}, nil
}

// fields returns the report as label/value rows, skipping empty values.
func (rep *infoReport) fields() [][2]string {
	rows := [][2]string{
		{"File", rep.File},
		{"Header", rep.Header},
		{"Version", rep.Version},
		{"Objects", fmt.Sprint(rep.Objects)},
		{"Encrypted", fmt.Sprint(rep.Encrypted)},
		{"Repairs", fmt.Sprint(rep.Repairs)},
	}
	m := rep.Metadata
	add := func(label, value string) {
		if value != "" {
			rows = append(rows, [2]string{label, value})
		}
	}
	date := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	add("Title", m.Title)
	add("Author", m.Author)
	add("Subject", m.Subject)
	add("Keywords", strings.Join(m.Keywords, ", "))
	add("Creator", m.Creator)
	add("Producer", m.Producer)
	add("CreationDate", date(m.CreationDate))
	add("ModDate", date(m.ModDate))
	add("Trapped", m.Trapped)
	for _, k := range m.CustomKeys() {
		add(k, m.Custom[k])
	}
	return rows
}

func newInfoCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print the header, object count and document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			rep, err := newInfoReport(args[0], r)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				return writeText(out, rep.fields())
			case "json":
				return writeJSON(out, rep)
			case "html":
				return writeHTML(out, "Document information", rep.fields())
			}
			return fmt.Errorf("unknown format %q (want text, json or html)", format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or html")

	return cmd
}
