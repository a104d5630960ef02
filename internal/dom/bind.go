package dom

import (
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// Bind exposes w to vm as a window-like object: document.title,
// document.body, document.write and document.getElementById, plus location
// and a self-referencing window property. Each call returns a fresh object
// sharing w.
func (w *Window) Bind(vm *goja.Runtime, location string) *goja.Object {
	win := vm.NewObject()
	doc := vm.NewObject()

	_ = doc.DefineAccessorProperty("title",
		vm.ToValue(func() string { return w.Title() }),
		nil, goja.FLAG_TRUE, goja.FLAG_TRUE)
	_ = doc.DefineAccessorProperty("body",
		vm.ToValue(func() goja.Value { return wrapNode(vm, w.Body()) }),
		nil, goja.FLAG_TRUE, goja.FLAG_TRUE)
	_ = doc.Set("write", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		if err := w.Write(strings.Join(parts, "")); err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	})
	_ = doc.Set("getElementById", func(id string) goja.Value {
		return wrapNode(vm, w.ElementByID(id))
	})

	_ = win.Set("document", doc)
	_ = win.Set("location", location)
	_ = win.Set("window", win)
	_ = win.Set("self", win)
	return win
}

func wrapNode(vm *goja.Runtime, n *html.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	obj := vm.NewObject()
	_ = obj.Set("tagName", strings.ToUpper(n.Data))
	_ = obj.Set("id", attr(n, "id"))
	_ = obj.Set("textContent", TextContent(n))
	inner, err := InnerHTML(n)
	if err != nil {
		panic(vm.NewGoError(err))
	}
	_ = obj.Set("innerHTML", inner)
	return obj
}
