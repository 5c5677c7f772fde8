package svg_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/render/svg"
)

func ExampleRender() {
	l := graph.Layout{
		Width: 300, Height: 144,
		Nodes: []graph.Node{{Number: 7, Title: "Write docs", Status: "ready", X: 40, Y: 40, Width: 220, Height: 64}},
	}
	doc := string(svg.Render(l))
	fmt.Println(strings.HasPrefix(doc, "<svg"))
	fmt.Println(strings.Contains(doc, ">Write docs</text>"))
	// Output:
	// true
	// true
}

func ExampleEscapeXML() {
	fmt.Println(svg.EscapeXML(`Fix <input> & "quotes"`))
	// Output: Fix &lt;input&gt; &amp; &#34;quotes&#34;
}
