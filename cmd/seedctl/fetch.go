package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shandysiswandi/seedauth/internal/pkg/provisioning"
)

func runFetchSeed(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("fetch-seed")
	apiURL := fs.String("url", os.Getenv("SEEDAUTH_PROVISIONING_URL"), "provisioning API URL")
	studentID := fs.String("student-id", "", "student id")
	repoURL := fs.String("repo-url", "", "GitHub repository URL")
	pubPath := fs.String("public-key", "student_public.pem", "public key PEM file")
	outPath := fs.String("out", filepath.Join("data", "encrypted_seed.txt"), "where to write the encrypted seed")
	timeout := fs.Duration("timeout", 10*time.Second, "per-request timeout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	switch {
	case strings.TrimSpace(*apiURL) == "":
		return fmt.Errorf("%w: -url is required", errUsage)
	case strings.TrimSpace(*studentID) == "":
		return fmt.Errorf("%w: -student-id is required", errUsage)
	case strings.TrimSpace(*repoURL) == "":
		return fmt.Errorf("%w: -repo-url is required", errUsage)
	}

	// #nosec G304 -- path is provided by the operator.
	pub, err := os.ReadFile(*pubPath)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}

	client := provisioning.New(*apiURL, provisioning.WithHTTPClient(&http.Client{Timeout: *timeout}))
	seed, err := client.FetchEncryptedSeed(ctx, provisioning.Request{
		StudentID:     strings.TrimSpace(*studentID),
		GitHubRepoURL: strings.TrimSpace(*repoURL),
		PublicKey:     string(pub),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o700); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeFile(*outPath, []byte(seed), 0o600); err != nil {
		return err
	}

	writef(stdout, "Encrypted seed saved at %s\n", *outPath)
	return nil
}
