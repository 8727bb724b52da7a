package remind

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// WhenParser resolves natural-language date expressions ("tomorrow at 9am",
// "in 20 minutes", "next tuesday") using the olebedev/when rule engine with
// the English and common rule sets.
type WhenParser struct {
	w *when.Parser
}

func NewWhenParser() *WhenParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &WhenParser{w: w}
}

func (p *WhenParser) Parse(text string, ref time.Time) (*DateMatch, error) {
	r, err := p.w.Parse(text, ref)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	return &DateMatch{Text: r.Text, Index: r.Index, Time: r.Time}, nil
}
