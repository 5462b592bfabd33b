package main

import (
	"github.com/ejack923/gmail-dashboard-backend/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
