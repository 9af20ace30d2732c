package cli

var completionScripts = map[string]string{
	"bash": bashCompletionScript,
	"zsh":  zshCompletionScript,
	"fish": fishCompletionScript,
}

const bashCompletionScript = `# bash completion for agent-browser
_agent_browser_completion() {
  local cur verb
  COMPREPLY=()
  cur="${COMP_WORDS[COMP_CWORD]}"

  if [[ "$cur" == -* ]]; then
    COMPREPLY=( $(compgen -W "$(agent-browser __complete flags 2>/dev/null)" -- "$cur") )
    return 0
  fi

  if [[ ${COMP_CWORD} -eq 1 ]]; then
    COMPREPLY=( $(compgen -W "$(agent-browser __complete verbs 2>/dev/null)" -- "$cur") )
    return 0
  fi

  verb="${COMP_WORDS[1]}"
  if [[ ${COMP_CWORD} -eq 2 ]]; then
    local subs
    subs="$(agent-browser __complete subverbs "$verb" 2>/dev/null)"
    COMPREPLY=( $(compgen -W "$subs" -- "$cur") )
    return 0
  fi

  COMPREPLY=( $(compgen -f -- "$cur") )
}
complete -F _agent_browser_completion agent-browser
`

const zshCompletionScript = `#compdef agent-browser
_agent_browser_completion() {
  local -a verbs subs flags

  if [[ "${words[CURRENT]}" == -* ]]; then
    flags=(${(f)"$(agent-browser __complete flags 2>/dev/null)"})
    _describe 'flag' flags
    return
  fi

  if (( CURRENT == 2 )); then
    verbs=(${(f)"$(agent-browser __complete verbs 2>/dev/null)"})
    _describe 'command' verbs
    return
  fi

  if (( CURRENT == 3 )); then
    subs=(${(f)"$(agent-browser __complete subverbs ${words[2]} 2>/dev/null)"})
    if (( ${#subs} > 0 )); then
      _describe 'subcommand' subs
      return
    fi
  fi

  _files
}
compdef _agent_browser_completion agent-browser
`

const fishCompletionScript = `function __agent_browser_words
    commandline -opc
end

function __agent_browser_verb
    set -l w (__agent_browser_words)
    if test (count $w) -ge 2
        echo $w[2]
    end
end

complete -c agent-browser -f -n 'test (count (__agent_browser_words)) -eq 1' -a "(agent-browser __complete verbs 2>/dev/null)"
complete -c agent-browser -f -n 'test (count (__agent_browser_words)) -eq 2' -a "(agent-browser __complete subverbs (__agent_browser_verb) 2>/dev/null)"
complete -c agent-browser -n 'string match -q -- "-*" (commandline -ct)' -a "(agent-browser __complete flags 2>/dev/null)"
`
