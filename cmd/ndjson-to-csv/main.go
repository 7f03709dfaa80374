package main

import "github.com/dbsmedya/ndjson2csv/cmd/ndjson-to-csv/cmd"

func main() {
	cmd.Execute()
}
