// Command ndnsec-dump-certificate prints the readable fields of an NDN
// certificate: its name, content type, signature type, validity
// period, and signing key name. It accepts either RFC 7468 PEM or raw
// TLV on stdin or from a file argument.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/ndn"
	"github.com/ndn-go/face/std/security"
	"github.com/ndn-go/face/std/security/signer"
	"github.com/ndn-go/face/std/utils/toolutils"
	"github.com/spf13/cobra"
)

// testKeyConfig customizes --gen-test-key. Loaded from --config, a
// YAML file, rather than individual flags, since it is a debug
// affordance rather than a primary interface.
type testKeyConfig struct {
	Identity string `yaml:"identity"`
}

var genTestKey bool
var pretty bool
var configFile string

var cmdRoot = &cobra.Command{
	Use:     "ndnsec-dump-certificate [file]",
	Short:   "Dump the fields of an NDN certificate",
	Args:    cobra.MaximumNArgs(1),
	Example: "  ndnsec-dump-certificate alice.cert\n  cat alice.cert | ndnsec-dump-certificate",
	RunE:    run,
}

func init() {
	cmdRoot.Flags().BoolVar(&genTestKey, "gen-test-key", false, "ignore input, generate and dump a throwaway self-signed test certificate")
	cmdRoot.Flags().BoolVar(&pretty, "pretty", true, "print human-readable fields instead of re-emitting PEM")
	cmdRoot.Flags().StringVar(&configFile, "config", "", "YAML file setting --gen-test-key's identity name")
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	spec := ndn.Spec2022{}

	var raw []byte
	var err error
	if genTestKey {
		identity := "/test-key"
		if configFile != "" {
			var cfg testKeyConfig
			toolutils.ReadYaml(&cfg, configFile)
			if cfg.Identity != "" {
				identity = cfg.Identity
			}
		}
		raw, err = makeTestCertificate(spec, identity)
	} else {
		raw, err = readInput(args)
	}
	if err != nil {
		return err
	}

	if decoded := security.PemDecode(raw); len(decoded) > 0 {
		raw = decoded[0]
	}

	data, _, err := spec.ReadData(enc.NewWireView(enc.Wire{raw}))
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}

	if !pretty {
		out, err := security.PemEncode(spec, raw)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	printFields(data)
	return nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}

func printFields(data ndn.Data) {
	fmt.Printf("Certificate name:\n  %s\n", data.Name())

	if ct, ok := data.ContentType().Get(); ok {
		fmt.Printf("Content type: %d\n", ct)
	}

	sig := data.Signature()
	if sig == nil {
		fmt.Println("Signature: none")
		return
	}
	fmt.Printf("Signature type: %s\n", sig.SigType())
	if kn := sig.KeyName(); len(kn) > 0 {
		fmt.Printf("Key locator: %s\n", kn)
	}
	if nb, na := sig.Validity(); nb != nil && na != nil {
		fmt.Printf("Validity:\n  NotBefore: %s\n  NotAfter:  %s\n", nb.Format(time.RFC3339), na.Format(time.RFC3339))
	}
}

func makeTestCertificate(spec ndn.Spec, identity string) ([]byte, error) {
	name, err := enc.NameFromStr(identity)
	if err != nil {
		return nil, fmt.Errorf("invalid identity name %q: %w", identity, err)
	}
	key, err := signer.KeygenEd25519(name)
	if err != nil {
		return nil, err
	}

	certName := append(enc.Name{}, name...)
	certName = append(certName,
		enc.NewStringComponent(enc.TypeGenericNameComponent, "KEY"),
		enc.NewStringComponent(enc.TypeGenericNameComponent, "self"),
		enc.NewVersionComponent(1),
	)

	pub, err := key.Public()
	if err != nil {
		return nil, err
	}

	cfg := &ndn.DataConfig{}
	encoded, err := spec.MakeData(certName, cfg, enc.Wire{pub}, key)
	if err != nil {
		return nil, err
	}
	return encoded.Wire.Join(), nil
}
