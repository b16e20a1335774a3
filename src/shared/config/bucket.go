package config

type Bucket struct {
	Region string
	Name   string
}
