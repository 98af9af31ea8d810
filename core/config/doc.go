// Package config provides configuration management for the registration manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, request body cap)
//   - Database: store connection details (MySQL or SQLite)
//   - Storage: S3/MinIO credentials and the artifact bucket
//   - Log: logging level and format
//   - Merge: merge engine defaults (schema document, default policy)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
