package banner

import (
	"fmt"
	"net"

	"github.com/XiChenQi2025/taoci-magic/pkg/config"
)

const banner = `
████████╗ █████╗  ██████╗  ██████╗██╗    ███╗   ███╗ █████╗  ██████╗ ██╗ ██████╗
╚══██╔══╝██╔══██╗██╔═══██╗██╔════╝██║    ████╗ ████║██╔══██╗██╔════╝ ██║██╔════╝
   ██║   ███████║██║   ██║██║     ██║    ██╔████╔██║███████║██║  ███╗██║██║
   ██║   ██╔══██║██║   ██║██║     ██║    ██║╚██╔╝██║██╔══██║██║   ██║██║██║
   ██║   ██║  ██║╚██████╔╝╚██████╗██║    ██║ ╚═╝ ██║██║  ██║╚██████╔╝██║╚██████╗
   ╚═╝   ╚═╝  ╚═╝ ╚═════╝  ╚═════╝╚═╝    ╚═╝     ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═╝ ╚═════╝
`

// PrintWithEff prints the startup banner using an EffectiveConfigResult.
func PrintWithEff(eff *config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	if eff.Config != nil {
		fmt.Printf("%s - %s\n", eff.Config.Site.Name, eff.Config.Site.Title)
	}
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("Backend:  %s\n", eff.Backend)
	fmt.Printf("DB Path:  %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", src)

	if eff.Config != nil {
		fmt.Println("\n== Pages ======================================================")
		for _, p := range eff.Config.Pages {
			state := "on"
			if !p.Enabled {
				state = "off"
			}
			fmt.Printf("- %-10s %s (%s)\n", p.Name, p.Title, state)
		}

		tlsOK := eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != ""
		fmt.Println("\n== Checks =====================================================")
		if tlsOK {
			fmt.Println("- TLS: configured")
		} else {
			fmt.Println("- TLS: unconfigured")
		}
		if len(eff.Config.Security.CORS.AllowedOrigins) > 0 {
			fmt.Printf("- CORS: %d origin(s)\n", len(eff.Config.Security.CORS.AllowedOrigins))
		} else {
			fmt.Println("- CORS: closed")
		}
		if eff.Config.Housekeeping.Enabled {
			fmt.Printf("- Housekeeping: enabled (cron=%s)\n", eff.Config.Housekeeping.Cron)
		} else {
			fmt.Println("- Housekeeping: disabled")
		}
	}

	base := "http://localhost:8080"
	if host, port, err := net.SplitHostPort(addr); err == nil {
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "localhost"
		}
		base = "http://" + net.JoinHostPort(host, port)
	}
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl '%s/v1/messages?sort=hot'\n", base)
	fmt.Printf("curl -X POST '%s/v1/answers/draw'\n", base)

	fmt.Println("\n== Logs: =================================================")
}
