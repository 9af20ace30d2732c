package command

import (
	"strconv"

	"github.com/agentbrowser/agent-browser/internal/ipc"
)

var grammar = buildGrammar()

func buildGrammar() map[string]*verb {
	open := &verb{min: 1, usage: "<url>", build: buildOpen}
	closeVerb := plain("close")
	press := keyVerb("press")
	scrollInto := selectorVerb("scrollintoview")

	g := map[string]*verb{
		// navigation
		"open":     open,
		"goto":     open,
		"navigate": open,
		"back":     plain("back"),
		"forward":  plain("forward"),
		"reload":   plain("reload"),

		// interaction
		"click":          selectorVerb("click"),
		"dblclick":       selectorVerb("dblclick"),
		"hover":          selectorVerb("hover"),
		"focus":          selectorVerb("focus"),
		"check":          selectorVerb("check"),
		"uncheck":        selectorVerb("uncheck"),
		"highlight":      selectorVerb("highlight"),
		"scrollintoview": scrollInto,
		"scrollinto":     scrollInto,
		"fill":           textVerb("fill", "value"),
		"type":           textVerb("type", "text"),
		"select": {min: 2, usage: "<selector> <value>", build: func(a *args) (ipc.Request, error) {
			return ipc.Request{"action": "select", "selector": a.pos[0], "value": a.pos[1]}, nil
		}},
		"drag": {min: 2, usage: "<source> <target>", build: func(a *args) (ipc.Request, error) {
			return ipc.Request{"action": "drag", "source": a.pos[0], "target": a.pos[1]}, nil
		}},
		"upload": {min: 2, usage: "<selector> <files...>", build: func(a *args) (ipc.Request, error) {
			files := make([]any, 0, len(a.pos)-1)
			for _, f := range a.pos[1:] {
				files = append(files, f)
			}
			return ipc.Request{"action": "upload", "selector": a.pos[0], "files": files}, nil
		}},

		// keyboard
		"press":   press,
		"key":     press,
		"keydown": keyVerb("keydown"),
		"keyup":   keyVerb("keyup"),

		"scroll": {usage: "[up|down|left|right] [pixels]", build: buildScroll},
		"wait": {
			usage: waitUsage,
			flags: []flag{
				valueFlag("text", "--text"),
				valueFlag("url", "--url", "-u"),
				valueFlag("load", "--load", "-l"),
				valueFlag("fn", "--fn", "-f"),
				optionalValueFlag("download", "--download"),
				valueFlag("timeout", "--timeout"),
			},
			build: buildWait,
		},

		// capture
		"screenshot": {usage: "[path]", build: func(a *args) (ipc.Request, error) {
			req := ipc.Request{"action": "screenshot", "fullPage": a.g.Full}
			if p, ok := a.opt(0); ok {
				req["path"] = p
			}
			return req, nil
		}},
		"pdf": {min: 1, usage: "<path>", build: func(a *args) (ipc.Request, error) {
			return ipc.Request{"action": "pdf", "path": a.pos[0]}, nil
		}},
		"snapshot": {
			usage: "[-i] [-c] [-d <depth>] [-s <selector>]",
			flags: []flag{
				boolFlag("interactive", "-i", "--interactive"),
				boolFlag("compact", "-c", "--compact"),
				valueFlag("depth", "-d", "--depth"),
				valueFlag("selector", "-s", "--selector"),
			},
			build: buildSnapshot,
		},
		"eval": {min: 1, usage: "<script...>", build: func(a *args) (ipc.Request, error) {
			return ipc.Request{"action": "evaluate", "script": a.rest(0)}, nil
		}},

		"close": closeVerb,
		"quit":  closeVerb,
		"exit":  closeVerb,

		// queries
		"get": {usage: "text|html|value|attr|url|title|count|box", subs: map[string]*verb{
			"text":  selectorVerb("gettext"),
			"html":  selectorVerb("innerhtml"),
			"value": selectorVerb("inputvalue"),
			"attr": {min: 2, usage: "<selector> <attribute>", build: func(a *args) (ipc.Request, error) {
				return ipc.Request{"action": "getattribute", "selector": a.pos[0], "attribute": a.pos[1]}, nil
			}},
			"url":   plain("url"),
			"title": plain("title"),
			"count": selectorVerb("count"),
			"box":   selectorVerb("boundingbox"),
		}},
		"is": {usage: "visible|enabled|checked <selector>", subs: map[string]*verb{
			"visible": selectorVerb("isvisible"),
			"enabled": selectorVerb("isenabled"),
			"checked": selectorVerb("ischecked"),
		}},
		"find": findVerb(),

		"mouse": mouseVerb(),
		"set":   setVerb(),

		"network": {usage: "route|unroute|requests", subs: map[string]*verb{
			"route": {
				min:   1,
				usage: "<url> [--abort] [--body <json>]",
				flags: []flag{boolFlag("abort", "--abort"), valueFlag("body", "--body")},
				build: func(a *args) (ipc.Request, error) {
					req := ipc.Request{"action": "route", "url": a.pos[0], "abort": a.has("abort")}
					if body, ok := a.flag("body"); ok {
						req["body"] = body
					}
					return req, nil
				},
			},
			"unroute": {usage: "[url]", build: func(a *args) (ipc.Request, error) {
				req := ipc.Request{"action": "unroute"}
				if u, ok := a.opt(0); ok {
					req["url"] = u
				}
				return req, nil
			}},
			"requests": {
				usage: "[--clear] [--filter <pattern>]",
				flags: []flag{boolFlag("clear", "--clear"), valueFlag("filter", "--filter")},
				build: func(a *args) (ipc.Request, error) {
					req := ipc.Request{"action": "requests", "clear": a.has("clear")}
					if f, ok := a.flag("filter"); ok {
						req["filter"] = f
					}
					return req, nil
				},
			},
		}},

		"storage": {usage: "local|session [get [key] | set <key> <value> | clear]", subs: map[string]*verb{
			"local":   storageArea(),
			"session": storageArea(),
		}},
		"cookies": {usage: "[get | set <name> <value> | clear]", defaultSub: "get", subs: map[string]*verb{
			"get": plain("cookies_get"),
			"set": {min: 2, usage: "<name> <value>", build: func(a *args) (ipc.Request, error) {
				cookie := map[string]any{"name": a.pos[0], "value": a.pos[1]}
				return ipc.Request{"action": "cookies_set", "cookies": []any{cookie}}, nil
			}},
			"clear": plain("cookies_clear"),
		}},

		"tab": {
			usage:      "[list | new [url] | close [n] | <n>]",
			defaultSub: "list",
			subs: map[string]*verb{
				"list": plain("tab_list"),
				"new": {usage: "[url]", build: func(a *args) (ipc.Request, error) {
					req := ipc.Request{"action": "tab_new"}
					if u, ok := a.opt(0); ok {
						req["url"] = normalizeURL(u)
					}
					return req, nil
				}},
				"close": {usage: "[n]", build: func(a *args) (ipc.Request, error) {
					req := ipc.Request{"action": "tab_close"}
					if raw, ok := a.opt(0); ok {
						n, err := parseNonNegative("index", raw)
						if err != nil {
							return nil, err
						}
						req["index"] = n
					}
					return req, nil
				}},
			},
			fallback: &verb{min: 1, build: func(a *args) (ipc.Request, error) {
				n, err := strconv.Atoi(a.pos[0])
				if err != nil || n < 0 {
					return nil, &UnknownSubcommandError{Verb: "tab", Sub: a.pos[0], Valid: []string{"<n>", "close", "list", "new"}}
				}
				return ipc.Request{"action": "tab_switch", "index": n}, nil
			}},
		},
		"window": {usage: "new", subs: map[string]*verb{
			"new": plain("window_new"),
		}},
		"frame": {
			usage: "<selector> | main",
			subs: map[string]*verb{
				"main": plain("frame_main"),
			},
			fallback: selectorVerb("frame"),
		},
		"dialog": {usage: "accept [text] | dismiss", subs: map[string]*verb{
			"accept": {usage: "[prompt text]", build: func(a *args) (ipc.Request, error) {
				req := ipc.Request{"action": "dialog", "response": "accept"}
				if len(a.pos) > 0 {
					req["promptText"] = a.rest(0)
				}
				return req, nil
			}},
			"dismiss": {build: func(a *args) (ipc.Request, error) {
				return ipc.Request{"action": "dialog", "response": "dismiss"}, nil
			}},
		}},

		// debugging
		"trace":    startStop("trace_start", "trace_stop"),
		"profiler": startStop("profiler_start", "profiler_stop"),
		"record": {usage: "start <path> [url] | stop", subs: map[string]*verb{
			"start": {min: 1, usage: "<path> [url]", build: func(a *args) (ipc.Request, error) {
				req := ipc.Request{"action": "recording_start", "path": a.pos[0]}
				if u, ok := a.opt(1); ok {
					req["url"] = normalizeURL(u)
				}
				return req, nil
			}},
			"stop": plain("recording_stop"),
		}},
		"console": clearable("console"),
		"errors":  clearable("errors"),

		"state": {usage: "save|load <path>", subs: map[string]*verb{
			"save": pathVerb("state_save"),
			"load": pathVerb("state_load"),
		}},

		"confirm": confirmationVerb("confirm"),
		"deny":    confirmationVerb("deny"),
	}
	return g
}

func plain(action string) *verb {
	return &verb{build: func(*args) (ipc.Request, error) {
		return ipc.Request{"action": action}, nil
	}}
}

func selectorVerb(action string) *verb {
	return &verb{min: 1, usage: "<selector>", build: func(a *args) (ipc.Request, error) {
		return ipc.Request{"action": action, "selector": a.pos[0]}, nil
	}}
}

func keyVerb(action string) *verb {
	return &verb{min: 1, usage: "<key>", build: func(a *args) (ipc.Request, error) {
		return ipc.Request{"action": action, "key": a.pos[0]}, nil
	}}
}

func pathVerb(action string) *verb {
	return &verb{min: 1, usage: "<path>", build: func(a *args) (ipc.Request, error) {
		return ipc.Request{"action": action, "path": a.pos[0]}, nil
	}}
}

// textVerb takes a selector followed by free text joined with spaces.
func textVerb(action, field string) *verb {
	return &verb{min: 2, usage: "<selector> <text...>", build: func(a *args) (ipc.Request, error) {
		return ipc.Request{"action": action, "selector": a.pos[0], field: a.rest(1)}, nil
	}}
}

func clearable(action string) *verb {
	return &verb{
		usage: "[--clear]",
		flags: []flag{boolFlag("clear", "--clear")},
		build: func(a *args) (ipc.Request, error) {
			return ipc.Request{"action": action, "clear": a.has("clear")}, nil
		},
	}
}

func startStop(startAction, stopAction string) *verb {
	optionalPath := func(action string) *verb {
		return &verb{usage: "[path]", build: func(a *args) (ipc.Request, error) {
			req := ipc.Request{"action": action}
			if p, ok := a.opt(0); ok {
				req["path"] = p
			}
			return req, nil
		}}
	}
	return &verb{usage: "start|stop [path]", subs: map[string]*verb{
		"start": optionalPath(startAction),
		"stop":  optionalPath(stopAction),
	}}
}

func confirmationVerb(action string) *verb {
	return &verb{min: 1, usage: "<confirmation-id>", build: func(a *args) (ipc.Request, error) {
		return ipc.Request{"action": action, "confirmationId": a.pos[0]}, nil
	}}
}

func storageArea() *verb {
	return &verb{usage: "[get [key] | set <key> <value> | clear]", defaultSub: "get", subs: map[string]*verb{
		"get": {usage: "[key]", build: func(a *args) (ipc.Request, error) {
			req := ipc.Request{"action": "storage_get", "type": a.path[1]}
			if k, ok := a.opt(0); ok {
				req["key"] = k
			}
			return req, nil
		}},
		"set": {min: 2, usage: "<key> <value>", build: func(a *args) (ipc.Request, error) {
			return ipc.Request{"action": "storage_set", "type": a.path[1], "key": a.pos[0], "value": a.pos[1]}, nil
		}},
		"clear": {build: func(a *args) (ipc.Request, error) {
			return ipc.Request{"action": "storage_clear", "type": a.path[1]}, nil
		}},
	}}
}
