package main

import (
	"github.com/sirupsen/logrus"

	"github.com/digitaleng1/digitalbuild-sub001/internal/app"
)

func main() {
	app, err := app.NewApp()
	if err != nil {
		logrus.Fatal(err)
	}

	app.Run()
}
