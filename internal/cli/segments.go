package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/caption"
	"github.com/mgpai22/captioner/internal/timeline"
)

var segmentsCmd = &cobra.Command{
	Use:   "segments [project]",
	Short: "Print the caption segments of a project",
	Long: `Group the words of a project into caption segments and print them.

A segment ends at a sentence-final word, before a pause longer than
--max-gap, or before a word that would push it past --max-chars.

Examples:
  captioner segments video.captions.json
  captioner segments video.captions.json --max-chars 24 --max-gap 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runSegments,
}

func init() {
	rootCmd.AddCommand(segmentsCmd)
	addSegmentFlags(segmentsCmd)
}

func runSegments(cmd *cobra.Command, args []string) error {
	track, err := caption.Load(args[0])
	if err != nil {
		return err
	}

	opts := segmentsFromFlags(cmd.Flags(), cfg.Segments)
	segments := timeline.GroupIntoSegments(track.Words(), opts)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTART\tEND\tWORDS\tTEXT")
	for _, seg := range segments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			seg.Index,
			seconds(seg.Start),
			seconds(seg.End),
			len(seg.Words),
			seg.Text,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logger.Debugw("Grouped segments",
		"segments", len(segments),
		"max_chars", opts.MaxChars,
		"max_gap", opts.MaxGap,
	)
	return nil
}
