// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/danielhkuo/connecthub/flow"
)

// AppName is shown in the page title and sidebar.
const AppName = "ConnectHub"

const stylesheet = `
body{margin:0;font-family:system-ui,sans-serif;background:#05010a;color:#e5d7ff}
.app{display:flex;min-height:100vh}
nav{width:220px;padding:1.2rem;background:#0d0518}
nav a,nav button{display:block;width:100%;margin:.3rem 0;padding:.5rem;border:0;border-radius:8px;background:none;color:#e5d7ff;text-align:left;font:inherit;text-decoration:none;cursor:pointer}
nav .active{background:#2a0f47}
main{flex:1;padding:1.2rem 2rem}
h1,h2,h3,h4{color:#c770ff}
label{display:block;margin-top:.8rem}
input,textarea{width:100%;max-width:36rem;padding:.5rem;border-radius:8px;border:1px solid #3b1e5c;background:#120822;color:inherit}
.btn{margin-top:1rem;padding:.6rem 1.4rem;border:0;border-radius:12px;background:linear-gradient(90deg,#b23aff,#7f00ff);color:#fff;font-weight:600;cursor:pointer}
.notice{padding:.7rem 1rem;border-radius:8px;margin-bottom:1rem}
.notice-success{background:#0f3d24}.notice-info{background:#12304d}.notice-warning{background:#4d3b12}.notice-error{background:#4d1220}
table{border-collapse:collapse;width:100%}
th,td{padding:.4rem .6rem;border-bottom:1px solid #2a0f47;text-align:left}
.actions{display:flex;gap:1rem}
`

// Layout wraps body in the document shell with the sidebar for v's state.
func Layout(title string, v flow.View, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		h.raw("<title>")
		h.text(title + " · " + AppName)
		h.raw("</title><style>" + stylesheet + "</style></head><body><div class=\"app\">")

		h.raw("<nav><h3>Menu</h3>")
		for _, item := range v.Nav {
			class := ""
			if item.Active {
				class = "active"
			}
			if item.Post {
				h.raw("<form method=\"post\"")
				h.attr("action", item.Href)
				h.raw(">")
				csrfField(h, v.CSRFToken)
				h.raw("<button type=\"submit\"")
				h.attr("class", class)
				h.raw(">")
				h.text(item.Label)
				h.raw("</button></form>")
				continue
			}
			h.raw("<a")
			h.attr("href", item.Href)
			h.attr("class", class)
			h.raw(">")
			h.text(item.Label)
			h.raw("</a>")
		}
		h.raw("</nav><main>")

		if v.Notice != nil {
			noticeBox(h, *v.Notice)
		}
		h.component(ctx, body)

		h.raw("</main></div></body></html>")
		return h.err
	})
}

func noticeBox(h *htmlWriter, n flow.Notice) {
	h.raw("<div role=\"status\"")
	h.attr("class", "notice notice-"+string(n.Kind))
	h.raw(">")
	h.text(n.Message)
	h.raw("</div>")
}

func csrfField(h *htmlWriter, token string) {
	h.raw("<input type=\"hidden\" name=\"csrf_token\"")
	h.attr("value", token)
	h.raw(">")
}
