package main

import "pet-care-portal/internal/cmd"

func main() {
	cmd.ExecuteDevAPI()
}
