// cmd/meclust/main.go
package main

import (
	"meclust/internal/app"
	"meclust/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
