package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/scan-coin/scan_coin/internal/apiclient"
	"github.com/scan-coin/scan_coin/internal/coin"
	"github.com/scan-coin/scan_coin/internal/collection"
	"github.com/scan-coin/scan_coin/internal/config"
	"github.com/scan-coin/scan_coin/internal/identify"
	"github.com/scan-coin/scan_coin/internal/logging"
)

// NewIdentifyCmd creates the identify command.
func NewIdentifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Identify a coin from photos of its faces",
		Long: `Identify a coin from a photo of its obverse and, optionally, its reverse.

COIN_PROVIDER=remote sends the photos to API_BASE_URL; any other value uses
the offline stand-in.`,
		Example: `  scancoin identify --obverse front.jpg
  scancoin identify --obverse front.jpg --reverse back.png --save`,
		Args: cobra.NoArgs,
		RunE: runIdentify,
	}

	cmd.Flags().String("obverse", "", "Photo of the obverse (required)")
	cmd.Flags().String("reverse", "", "Photo of the reverse")
	cmd.Flags().Bool("save", false, "Save the result to the collection")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	cmd.Flags().String("provider", "", "Override COIN_PROVIDER (mock or remote)")
	_ = cmd.MarkFlagRequired("obverse")

	return cmd
}

func runIdentify(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.CoinProvider = p
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.NewText(cmd.ErrOrStderr(), level)

	obversePath, _ := cmd.Flags().GetString("obverse")
	reversePath, _ := cmd.Flags().GetString("reverse")

	in := coin.Input{}
	if in.Obverse, err = readSide(obversePath); err != nil {
		return err
	}
	if reversePath != "" {
		reverse, err := readSide(reversePath)
		if err != nil {
			return err
		}
		in.Reverse = &reverse
	}

	identifier, err := newIdentifier(cfg)
	if err != nil {
		return err
	}
	logger.Debug("identifying coin",
		"mode", identifier.Mode(),
		"obverse", in.Obverse.ImageURI,
		"obverse_mime", in.Obverse.MimeType,
		"has_reverse", in.HasReverse(),
	)

	result, err := identifier.Identify(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("identify: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if err := printResult(cmd.OutOrStdout(), result, asJSON); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		svc, path, err := openCollection(cmd, cfg)
		if err != nil {
			return err
		}
		record, err := svc.Save(cmd.Context(), collection.SaveInput{Result: result, ImageURI: in.Obverse.ImageURI})
		if err != nil {
			return fmt.Errorf("save: %w", err)
		}
		logger.Debug("saved record", "path", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Saved as %s\n", record.ID)
	}
	return nil
}

func newIdentifier(cfg config.CLI) (*identify.Selector, error) {
	mode := identify.ParseMode(cfg.CoinProvider)
	var remote identify.Identifier
	if mode == identify.ModeRemote {
		client, err := apiclient.New(cfg.APIBaseURL, cfg.APIToken, nil)
		if err != nil {
			return nil, err
		}
		remote = client
	}
	return identify.NewSelector(mode, remote, identify.NewMock(cfg.MockDelay))
}

// readSide loads an image file, sniffs its type and base64-encodes it.
func readSide(path string) (coin.SideImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return coin.SideImage{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return coin.SideImage{}, fmt.Errorf("read image: %s is empty", path)
	}

	mime, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	if !strings.HasPrefix(mime, "image/") {
		return coin.SideImage{}, fmt.Errorf("%s is not an image (detected %s)", path, mime)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return coin.SideImage{
		ImageURI:    "file://" + filepath.ToSlash(abs),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    mime,
	}, nil
}

func printResult(w io.Writer, r coin.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Fprintf(w, "%s, %s (%s)\n", r.Country, r.Denomination, r.Year)
	fmt.Fprintf(w, "Estimated value: %.2f - %.2f %s\n", r.EstimatedValueMin, r.EstimatedValueMax, r.Currency)
	fmt.Fprintf(w, "Confidence: %s\n", r.Confidence)
	return nil
}
