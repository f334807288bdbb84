package app

import (
	"bufio"
	"os"
	"strings"

	"github.com/bengler/prosemirror/internal/model"
)

// SampleDocument is shown when no document file is given.
func SampleDocument() *model.Node {
	return model.Doc(
		model.Heading("Selection demo"),
		model.Paragraph("Click and drag to select text."),
		model.Image("diagram.png"),
		model.Paragraph("Arrow keys step over the image as a node selection."),
		model.Blockquote(model.Paragraph("Alt+arrow skips it.")),
		model.Rule(),
		model.Paragraph("Ctrl+Q quits."),
	)
}

// LoadDocument reads a document file. See ParseDocument for the format.
func LoadDocument(path string) (*model.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(string(data)), nil
}

// ParseDocument builds a document from a line format:
//
//	# text     heading
//	> text     paragraph inside a blockquote; consecutive lines share one
//	![src]     image
//	---        horizontal rule
//	text       paragraph
//
// Blank lines are skipped. A document without blocks gets one empty
// paragraph so that it always has a valid selection.
func ParseDocument(text string) *model.Node {
	var blocks []*model.Node
	var quote []*model.Node

	flush := func() {
		if len(quote) > 0 {
			blocks = append(blocks, model.Blockquote(quote...))
			quote = nil
		}
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if rest, ok := strings.CutPrefix(line, ">"); ok {
			quote = append(quote, model.Paragraph(strings.TrimPrefix(rest, " ")))
			continue
		}
		flush()
		switch {
		case line == "":
		case line == "---":
			blocks = append(blocks, model.Rule())
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, model.Heading(strings.TrimPrefix(line, "# ")))
		case strings.HasPrefix(line, "![") && strings.HasSuffix(line, "]"):
			blocks = append(blocks, model.Image(line[2:len(line)-1]))
		default:
			blocks = append(blocks, model.Paragraph(line))
		}
	}
	flush()

	if len(blocks) == 0 {
		blocks = append(blocks, model.Paragraph(""))
	}
	return model.Doc(blocks...)
}
