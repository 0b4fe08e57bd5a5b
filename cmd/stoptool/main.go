package main

import "fuel-route-service/cmd/stoptool/cmd"

func main() {
	cmd.Execute()
}
