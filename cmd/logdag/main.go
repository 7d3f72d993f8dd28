// Command logdag is a reference CLI exercising the causal-log operations
// against a BadgerDB-backed block store.
package main

import "github.com/oriole-systems/causallog/cmd/logdag/commands"

func main() {
	commands.Execute()
}
