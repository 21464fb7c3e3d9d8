package banner

import (
	"fmt"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/config"
)

const banner = `
██╗  ██╗ ██████╗ ██╗   ██╗███████╗███████╗ ██████╗ ██████╗  █████╗ ███╗   ███╗
██║  ██║██╔═══██╗██║   ██║██╔════╝██╔════╝██╔════╝ ██╔══██╗██╔══██╗████╗ ████║
███████║██║   ██║██║   ██║███████╗█████╗  ██║  ███╗██████╔╝███████║██╔████╔██║
██╔══██║██║   ██║██║   ██║╚════██║██╔══╝  ██║   ██║██╔══██╗██╔══██║██║╚██╔╝██║
██║  ██║╚██████╔╝╚██████╔╝███████║███████╗╚██████╔╝██║  ██║██║  ██║██║ ╚═╝ ██║
╚═╝  ╚═╝ ╚═════╝  ╚═════╝ ╚══════╝╚══════╝ ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝
`

// Print writes the startup banner with the effective runtime settings.
func Print(cfg *config.Config, addr, dbPath, source, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if source != "" {
		fmt.Printf("Config:   %s\n", source)
	}
	if cfg != nil && cfg.Server.SignalAddr != "" {
		fmt.Printf("Signals:  %s\n", cfg.Server.SignalAddr)
	}

	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/users                      - Register a user profile")
	fmt.Println("GET  /v1/users/{id}/chats           - Chat list snapshot")
	fmt.Println("GET  /v1/users/{id}/chats/stream    - Chat list live stream (SSE)")
	fmt.Println("POST /v1/chats/{id}/messages        - Send or schedule a message")
	fmt.Println("GET  /v1/chats/{id}/stream          - Message feed live stream (SSE)")
	fmt.Println("POST /v1/chats/{id}/media           - Upload media (multipart)")
	fmt.Println("POST /v1/chats/{id}/typing          - Typing signal")

	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/v1/users' -d '{\"name\":\"Ada\"}'\n", addr)
	fmt.Printf("curl 'http://localhost%s/v1/chats/<chat>/messages?limit=50'\n", addr)

	fmt.Println("\n== Production? =================================================")
	ak := 0
	if cfg != nil {
		ak = len(cfg.Security.APIKeys.Frontend) + len(cfg.Security.APIKeys.Backend) + len(cfg.Security.APIKeys.Admin)
	}
	if ak == 0 {
		fmt.Println("No API keys configured - all requests will be rejected")
	}
	fmt.Println("Set a proper storage path (--db)")
	fmt.Println("Put TLS in front or set server.tls cert/key")
}
