// Command alloy-heat runs the alloy heat propagation simulation.
package main

import "alloy-heat/cmd/alloy-heat/cmd"

func main() {
	cmd.Execute()
}
