package config

import (
	"log"

	"github.com/ncerda/simulator-server/storage"
)

var Blob storage.Store

// ConnectStorage wires the Supabase-backed blob store the image and result
// endpoints depend on.
func ConnectStorage() {
	Blob = storage.NewSupabase()
	log.Println("Blob storage client initialized")
}
