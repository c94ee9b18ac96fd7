package main

import "github.com/zerojuls/ScheduleStorm-Server/internal/cli"

func main() {
	cli.Execute()
}
