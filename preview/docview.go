package preview

import (
	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/editor"
	"github.com/milk9111/spritepreview/sprite"
)

// DocView is the preview's own editor over a document, plus its subscription
// to that editor's state transitions.
type DocView struct {
	ed  *editor.Editor
	sub *editor.Subscription
}

func newDocView(doc *sprite.Document, onState func(editor.StateEvent)) *DocView {
	ed := editor.New(doc)
	return &DocView{ed: ed, sub: ed.Subscribe(onState)}
}

func (v *DocView) Editor() *editor.Editor {
	if v == nil {
		return nil
	}
	return v.ed
}

func (v *DocView) Document() *sprite.Document {
	if v == nil {
		return nil
	}
	return v.ed.Document()
}

func (v *DocView) setViewport(client common.Rect) {
	if v != nil {
		v.ed.SetViewport(client.Size())
	}
}

// Close unsubscribes before shutting the editor down so no transition
// emitted during teardown reaches the window.
func (v *DocView) Close() {
	if v == nil {
		return
	}
	v.sub.Cancel()
	v.ed.Close()
}
