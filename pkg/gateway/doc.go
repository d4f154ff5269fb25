// Package gateway provides a reusable Hikvision access-control gateway that
// can be embedded into other Go applications.
//
// # Overview
//
// The gateway fronts one or more ISAPI access-control terminals with a REST
// API: device identity and health, door control, persons, cards and access
// events. Devices authenticate with HTTP Digest by default.
//
// # Basic Usage
//
// Create a gateway programmatically:
//
//	cfg := &gateway.Config{
//		Server: gateway.ServerConfig{
//			Port:         8080,
//			ReadTimeout:  30 * time.Second,
//			WriteTimeout: 60 * time.Second,
//		},
//		Auth: gateway.AuthConfig{
//			APIKeys: []gateway.APIKey{
//				{Name: "my-app", Key: "secret-key-here"},
//			},
//		},
//		Hikvision: gateway.HikvisionConfig{
//			Default: "lobby",
//			Devices: map[string]gateway.DeviceConfig{
//				"lobby": {Host: "192.168.1.100", Username: "admin", Password: "password"},
//			},
//		},
//		Logging: gateway.LoggingConfig{
//			Level:  "info",
//			Format: "json",
//		},
//	}
//
//	gw, err := gateway.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := gw.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Using with Existing HTTP Server
//
// Integrate the gateway into an existing HTTP server:
//
//	gw, err := gateway.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Mount the gateway under a specific path
//	http.Handle("/acs/", http.StripPrefix("/acs", gw.Handler()))
//
//	http.ListenAndServe(":8080", nil)
//
// # File and Environment Configuration
//
// Load a YAML file with HIKVISION_* environment overrides, or the
// environment alone:
//
//	gw, err := gateway.NewFromConfigFile("configs/gateway.yaml")
//	gw, err := gateway.NewFromEnv()
//
// # Direct Service Access
//
// Access the service layer directly for programmatic control:
//
//	status, err := gw.Service().ControlDoor(ctx, "lobby", 1, services.DoorOpen)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("door opened: %v\n", status.OK())
package gateway
