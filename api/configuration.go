package api

import "time"

type Configuration struct {
	Env     string
	AppName string
	Port    string

	// MimicAppUrl is the browser-facing frontend, used to build the CORS
	// allow list and the magic link landing page.
	MimicAppUrl string

	DefaultTimeout time.Duration
}
