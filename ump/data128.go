package ump

// Data128 is a four-word MT-5 message (SysEx8 or Mixed Data Set). No
// component in this module produces or consumes its sub-fields — the
// dispatcher hands it to the Data128 handler as raw words and the
// translators never construct one (see DESIGN.md) — so only the raw
// words and the routing-relevant group field are exposed.
type Data128 struct {
	words [4]Word
}

func (d Data128) WithGroup(g uint8) Data128 { d.words[0] = WithGroup(d.words[0], g); return d }
func (d Data128) Group() uint8              { return Group(d.words[0]) }
func (d Data128) Words() [4]Word            { return d.words }

// Data128FromWords parses a raw MT-5 word quadruple into a Data128 view.
func Data128FromWords(words [4]Word) Data128 { return Data128{words: words} }
