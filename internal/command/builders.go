package command

import (
	"strconv"

	"github.com/agentbrowser/agent-browser/internal/ipc"
)

const waitUsage = "<ms|selector> | --text <t> | --url <u> | --load <state> | --fn <expr> | --download [path]"

func buildOpen(a *args) (ipc.Request, error) {
	req := ipc.Request{"action": "navigate", "url": normalizeURL(a.pos[0])}
	if a.g.Headers != "" {
		headers, err := parseHeaders("--headers", a.g.Headers)
		if err != nil {
			return nil, err
		}
		req["headers"] = headers
	}
	return req, nil
}

func buildScroll(a *args) (ipc.Request, error) {
	direction := "down"
	if raw, ok := a.opt(0); ok {
		d, err := oneOf("direction", raw, "up", "down", "left", "right")
		if err != nil {
			return nil, err
		}
		direction = d
	}

	amount := 300
	if raw, ok := a.opt(1); ok {
		n, err := parsePositive("amount", raw)
		if err != nil {
			return nil, err
		}
		amount = n
	}
	return ipc.Request{"action": "scroll", "direction": direction, "amount": amount}, nil
}

// buildWait picks the wait form from its flags; without one, a single
// argument is a millisecond count when it parses fully as an unsigned
// integer and a selector otherwise.
func buildWait(a *args) (ipc.Request, error) {
	var req ipc.Request
	switch {
	case a.has("text"):
		text, _ := a.flag("text")
		req = ipc.Request{"action": "wait", "text": text}
	case a.has("url"):
		u, _ := a.flag("url")
		req = ipc.Request{"action": "waitforurl", "url": u}
	case a.has("load"):
		raw, _ := a.flag("load")
		state, err := oneOf("--load", raw, "load", "domcontentloaded", "networkidle")
		if err != nil {
			return nil, err
		}
		req = ipc.Request{"action": "waitforloadstate", "state": state}
	case a.has("fn"):
		expr, _ := a.flag("fn")
		req = ipc.Request{"action": "waitforfunction", "expression": expr}
	case a.has("download"):
		req = ipc.Request{"action": "waitfordownload"}
		if p, _ := a.flag("download"); p != "" {
			req["path"] = p
		}
	default:
		arg, ok := a.opt(0)
		if !ok {
			return nil, &MissingArgumentsError{Verb: a.name(), Usage: waitUsage}
		}
		if ms, err := strconv.ParseUint(arg, 10, 64); err == nil {
			return ipc.Request{"action": "wait", "timeout": ms}, nil
		}
		req = ipc.Request{"action": "wait", "selector": arg}
	}

	if raw, ok := a.flag("timeout"); ok {
		ms, err := parseNonNegative("--timeout", raw)
		if err != nil {
			return nil, err
		}
		req["timeout"] = ms
	}
	return req, nil
}

func buildSnapshot(a *args) (ipc.Request, error) {
	req := ipc.Request{"action": "snapshot"}
	if a.has("interactive") {
		req["interactive"] = true
	}
	if a.has("compact") {
		req["compact"] = true
	}
	if raw, ok := a.flag("depth"); ok {
		n, err := parseNonNegative("--depth", raw)
		if err != nil {
			return nil, err
		}
		req["maxDepth"] = n
	}
	if sel, ok := a.flag("selector"); ok {
		req["selector"] = sel
	}
	return req, nil
}

// locator describes one "find" form: the request action, the field holding
// the locator value and which optional fields it carries.
type locator struct {
	action    string
	field     string
	withValue bool
	withExact bool
	withName  bool
}

func findVerb() *verb {
	locators := map[string]locator{
		"role":        {action: "getbyrole", field: "role", withValue: true, withExact: true, withName: true},
		"text":        {action: "getbytext", field: "text", withExact: true},
		"label":       {action: "getbylabel", field: "label", withValue: true, withExact: true},
		"placeholder": {action: "getbyplaceholder", field: "placeholder", withValue: true, withExact: true},
		"alt":         {action: "getbyalttext", field: "text", withExact: true},
		"title":       {action: "getbytitle", field: "text", withExact: true},
		"testid":      {action: "getbytestid", field: "testId", withValue: true},
	}

	subs := make(map[string]*verb, len(locators)+3)
	for name, loc := range locators {
		subs[name] = locatorVerb(loc)
	}
	subs["first"] = positionVerb(0)
	subs["last"] = positionVerb(-1)
	subs["nth"] = &verb{
		min:   2,
		usage: "<index> <selector> [action] [value]",
		build: func(a *args) (ipc.Request, error) {
			idx, err := parseInt("index", a.pos[0])
			if err != nil {
				return nil, err
			}
			return nthRequest(a, a.pos[1], idx, 2), nil
		},
	}

	return &verb{usage: "role|text|label|placeholder|alt|title|testid|first|last|nth <value> [action] [value]", subs: subs}
}

func locatorVerb(loc locator) *verb {
	v := &verb{
		min:   1,
		usage: "<value> [action] [value]",
		build: func(a *args) (ipc.Request, error) {
			req := ipc.Request{"action": loc.action, loc.field: a.pos[0], "subaction": subaction(a, 1)}
			if loc.withValue && len(a.pos) > 2 {
				req["value"] = a.rest(2)
			}
			if loc.withName {
				if name, ok := a.flag("name"); ok {
					req["name"] = name
				}
			}
			if loc.withExact {
				req["exact"] = a.has("exact")
			}
			return req, nil
		},
	}
	if loc.withName {
		v.flags = append(v.flags, valueFlag("name", "--name"))
	}
	if loc.withExact {
		v.flags = append(v.flags, boolFlag("exact", "--exact"))
	}
	return v
}

func positionVerb(index int) *verb {
	return &verb{min: 1, usage: "<selector> [action] [value]", build: func(a *args) (ipc.Request, error) {
		return nthRequest(a, a.pos[0], index, 1), nil
	}}
}

// nthRequest builds an "nth" request whose sub-action starts at pos[from].
func nthRequest(a *args, selector string, index, from int) ipc.Request {
	req := ipc.Request{"action": "nth", "selector": selector, "index": index, "subaction": subaction(a, from)}
	if len(a.pos) > from+1 {
		req["value"] = a.rest(from + 1)
	}
	return req
}

func subaction(a *args, i int) string {
	if s, ok := a.opt(i); ok {
		return s
	}
	return "click"
}

func mouseVerb() *verb {
	button := func(action string) *verb {
		return &verb{usage: "[left|right|middle]", build: func(a *args) (ipc.Request, error) {
			b := "left"
			if raw, ok := a.opt(0); ok {
				var err error
				if b, err = oneOf("button", raw, "left", "right", "middle"); err != nil {
					return nil, err
				}
			}
			return ipc.Request{"action": action, "button": b}, nil
		}}
	}

	return &verb{usage: "move <x> <y> | down [button] | up [button] | wheel [dy] [dx]", subs: map[string]*verb{
		"move": {min: 2, usage: "<x> <y>", build: func(a *args) (ipc.Request, error) {
			x, err := parseInt("x", a.pos[0])
			if err != nil {
				return nil, err
			}
			y, err := parseInt("y", a.pos[1])
			if err != nil {
				return nil, err
			}
			return ipc.Request{"action": "mousemove", "x": x, "y": y}, nil
		}},
		"down": button("mousedown"),
		"up":   button("mouseup"),
		"wheel": {usage: "[dy] [dx]", build: func(a *args) (ipc.Request, error) {
			dy, dx := 100, 0
			if raw, ok := a.opt(0); ok {
				n, err := parseInt("dy", raw)
				if err != nil {
					return nil, err
				}
				dy = n
			}
			if raw, ok := a.opt(1); ok {
				n, err := parseInt("dx", raw)
				if err != nil {
					return nil, err
				}
				dx = n
			}
			return ipc.Request{"action": "mousewheel", "deltaX": dx, "deltaY": dy}, nil
		}},
	}}
}

func setVerb() *verb {
	credentials := &verb{min: 2, usage: "<username> <password>", build: func(a *args) (ipc.Request, error) {
		return ipc.Request{"action": "credentials", "username": a.pos[0], "password": a.pos[1]}, nil
	}}
	geo := &verb{min: 2, usage: "<latitude> <longitude>", build: func(a *args) (ipc.Request, error) {
		lat, err := parseCoordinate("latitude", a.pos[0], 90)
		if err != nil {
			return nil, err
		}
		lng, err := parseCoordinate("longitude", a.pos[1], 180)
		if err != nil {
			return nil, err
		}
		return ipc.Request{"action": "geolocation", "latitude": lat, "longitude": lng}, nil
	}}

	return &verb{usage: "viewport|device|geo|offline|headers|credentials|media ...", subs: map[string]*verb{
		"viewport": {min: 2, usage: "<width> <height>", build: func(a *args) (ipc.Request, error) {
			w, err := parsePositive("width", a.pos[0])
			if err != nil {
				return nil, err
			}
			h, err := parsePositive("height", a.pos[1])
			if err != nil {
				return nil, err
			}
			return ipc.Request{"action": "viewport", "width": w, "height": h}, nil
		}},
		"device": {min: 1, usage: "<name>", build: func(a *args) (ipc.Request, error) {
			return ipc.Request{"action": "device", "device": a.rest(0)}, nil
		}},
		"geo":         geo,
		"geolocation": geo,
		"offline": {usage: "[on|off]", build: func(a *args) (ipc.Request, error) {
			offline := true
			if raw, ok := a.opt(0); ok {
				switch raw {
				case "on", "true":
				case "off", "false":
					offline = false
				default:
					return nil, &InvalidValueError{Field: "offline", Value: raw, Reason: "must be one of on, off, true, false"}
				}
			}
			return ipc.Request{"action": "offline", "offline": offline}, nil
		}},
		"headers": {min: 1, usage: "<json>", build: func(a *args) (ipc.Request, error) {
			headers, err := parseHeaders("headers", a.rest(0))
			if err != nil {
				return nil, err
			}
			return ipc.Request{"action": "headers", "headers": headers}, nil
		}},
		"credentials": credentials,
		"auth":        credentials,
		"media": {usage: "[dark|light|no-preference] [reduced-motion]", build: func(a *args) (ipc.Request, error) {
			scheme, reduced := "no-preference", false
			for _, tok := range a.pos {
				switch tok {
				case "dark", "light", "no-preference":
					scheme = tok
				case "reduced-motion":
					reduced = true
				default:
					return nil, &InvalidValueError{Field: "media", Value: tok, Reason: "must be dark, light, no-preference or reduced-motion"}
				}
			}
			return ipc.Request{"action": "media", "colorScheme": scheme, "reducedMotion": reduced}, nil
		}},
	}}
}
