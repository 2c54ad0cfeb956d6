package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/forgo/roster/internal/model"
	"github.com/forgo/roster/pkg/jwt"
)

func main() {
	// Flags for customization
	privateKeyPath := flag.String("key", "./keys/private.pem", "Path to JWT private key")
	accountID := flag.String("account", "account:admin", "Account ID for the token")
	email := flag.String("email", "admin@roster.local", "Email for the token")
	name := flag.String("name", "Admin", "Display name for the token")
	roles := flag.String("roles", "admin", "Comma-separated roles (admin, staff, player)")
	issuer := flag.String("issuer", "roster.forgo.software", "JWT issuer")
	expMins := flag.Int("exp", 60*24*7, "Token expiration in minutes (default: 7 days)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	parsed := model.ParseRoles(strings.Split(*roles, ","))
	if len(parsed) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no known roles in %q\n", *roles)
		os.Exit(1)
	}
	roleNames := make([]string, len(parsed))
	for i, r := range parsed {
		roleNames[i] = string(r)
	}

	// Create JWT service with just the private key
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: *privateKeyPath,
		Issuer:         *issuer,
		ExpirationMins: *expMins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nMake sure you have generated keys with: make keys-generate\n")
		os.Exit(1)
	}

	token, err := jwtService.Sign(jwt.Claims{
		AccountID: *accountID,
		Email:     *email,
		Name:      *name,
		Roles:     roleNames,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"account_id":   *accountID,
			"email":        *email,
			"roles":        roleNames,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
		return
	}

	expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
	fmt.Println("Token Generated")
	fmt.Println("===============")
	fmt.Printf("Account:  %s\n", *accountID)
	fmt.Printf("Email:    %s\n", *email)
	fmt.Printf("Roles:    %s\n", strings.Join(roleNames, ", "))
	fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/dashboard\n", token[:50]+"...")
}
