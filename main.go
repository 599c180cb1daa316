package main

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/starshine-sys/snitch/cmd"
	"github.com/starshine-sys/snitch/common/log"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Fatal(err)
	}
}
