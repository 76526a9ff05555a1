// Package docs renders small markdown-like documents, used to explain type trees to humans.
package docs

import (
	"fmt"
	"io"
	"strings"
)

type Documentation interface {
	render(w io.Writer, headerLevel int, indentation int)
}

func RenderDocumentation(d Documentation, w io.Writer) {
	d.render(w, 0, 0)
	fmt.Fprint(w, "\n")
}

type body struct {
	elements []Documentation
}

func (d *body) render(w io.Writer, headerLevel int, indentation int) {
	for i, el := range d.elements {
		if i > 0 {
			fmt.Fprint(w, "\n\n")
		}
		el.render(w, headerLevel, indentation)
	}
}

func Body(elements ...Documentation) Documentation {
	return &body{elements: elements}
}

type section struct {
	header string
	body   Documentation
}

func (d *section) render(w io.Writer, headerLevel int, indentation int) {
	fmt.Fprintf(w, "%s %s\n", strings.Repeat("#", headerLevel+1), d.header)
	d.body.render(w, headerLevel+1, indentation)
}

func Section(header string, body Documentation) Documentation {
	return &section{header: header, body: body}
}

type list struct {
	elements []Documentation
}

// Items of nested lists start on a new line, indented with tabs.
func (d *list) render(w io.Writer, headerLevel int, indentation int) {
	for i, el := range d.elements {
		if i > 0 || indentation > 0 {
			fmt.Fprint(w, "\n")
		}
		fmt.Fprint(w, strings.Repeat("\t", indentation))
		fmt.Fprint(w, "* ")
		el.render(w, headerLevel, indentation+1)
	}
}

func List(elements ...Documentation) Documentation {
	return &list{elements: elements}
}

type item struct {
	text     string
	children Documentation
}

func (d *item) render(w io.Writer, headerLevel int, indentation int) {
	fmt.Fprint(w, d.text)
	if d.children != nil {
		d.children.render(w, headerLevel, indentation)
	}
}

// Item is a list entry with an optional nested list below it.
func Item(text string, children ...Documentation) Documentation {
	if len(children) == 0 {
		return &item{text: text}
	}
	return &item{text: text, children: List(children...)}
}

type text struct {
	text string
}

func (d *text) render(w io.Writer, headerLevel int, indentation int) {
	fmt.Fprint(w, d.text)
}

func Text(txt string) Documentation {
	return &text{text: txt}
}
