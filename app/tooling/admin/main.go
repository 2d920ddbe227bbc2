// This program performs administrative tasks against a running ledger node.
package main

import "github.com/ardanlabs/ledger/app/tooling/admin/cmd"

func main() {
	cmd.Execute()
}
