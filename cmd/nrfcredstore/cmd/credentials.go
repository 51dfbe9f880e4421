package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pascal-nordic/nrfcredstore/pkg/credential"
	"github.com/pascal-nordic/nrfcredstore/pkg/credstore"
)

func init() {
	rootCmd.AddCommand(listCmd, writeCmd, deleteCmd, deleteAllCmd, generateCmd)

	listCmd.Flags().String("tag", "", "Only list credentials with this security tag")
	listCmd.Flags().String("type", credential.Any.String(), "Only list credentials of this type (requires --tag)")

	deleteAllCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	generateCmd.Flags().String("attributes", "", `CSR subject attributes, e.g. "O=Nordic Semiconductor,CN=mydevice"`)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	Long: `List credentials in the modem's secure storage with their SHA-256 digests.

Examples:
  nrfcredstore list
  nrfcredstore list --tag 42
  nrfcredstore list --tag 42 --type CLIENT_CERT
  nrfcredstore list -o json`,
	Args: NoArgsWithUsage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		tagFlag, _ := cmd.Flags().GetString("tag")
		typeFlag, _ := cmd.Flags().GetString("type")

		var tag *uint32
		if tagFlag != "" {
			t, err := credential.ParseTag(tagFlag)
			if err != nil {
				return err
			}
			tag = &t
		}
		credType, err := credential.ParseType(typeFlag)
		if err != nil {
			return err
		}
		if tag == nil && credType != credential.Any {
			return credstore.ErrTypeWithoutTag
		}

		return withSession(cmd, sessionOptions{}, func(s *session) error {
			creds, err := s.store.List(tag, credType)
			if err != nil {
				return err
			}
			if outputFormat != "table" {
				if creds == nil {
					creds = []credential.Credential{}
				}
				return formatOutput(cmd, creds)
			}
			return printCredentials(cmd.OutOrStdout(), creds)
		})
	},
}

func printCredentials(out io.Writer, creds []credential.Credential) error {
	if len(creds) == 0 {
		_, err := fmt.Fprintln(out, "No credentials found")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tTYPE\tSHA")
	for _, c := range creds {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.Tag, c.Type, c.SHA)
	}
	return w.Flush()
}

var writeCmd = &cobra.Command{
	Use:   "write <tag> <type> <file>",
	Short: "Write a credential from a PEM or text file",
	Long: `Write a credential to the given security tag. The file is sent as is,
so certificates and keys must be PEM encoded. Use "-" to read from stdin.

Writable types: ROOT_CA_CERT, CLIENT_CERT, CLIENT_KEY, PSK, PSK_IDENTITY.

Examples:
  nrfcredstore write 42 ROOT_CA_CERT ca.pem
  nrfcredstore write 42 CLIENT_KEY client.key
  echo -n 0123456789abcdef | nrfcredstore write 42 PSK -`,
	Args: ExactArgsWithUsage(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, credType, err := parseTagAndType(args[0], args[1])
		if err != nil {
			return err
		}
		if credType == credential.Any {
			return credstore.ErrAnyType
		}

		var in io.Reader = cmd.InOrStdin()
		if args[2] != "-" {
			f, err := os.Open(args[2])
			if err != nil {
				return fmt.Errorf("open credential file: %w", err)
			}
			defer f.Close()
			in = f
		}

		return withSession(cmd, sessionOptions{offline: true}, func(s *session) error {
			if err := s.store.Write(tag, credType, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to tag %d\n", credType, tag)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <tag> <type>",
	Short: "Delete a credential",
	Long: `Delete the credential of the given type from a security tag.

Examples:
  nrfcredstore delete 42 CLIENT_CERT
  nrfcredstore delete 42 1`,
	Args: ExactArgsWithUsage(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, credType, err := parseTagAndType(args[0], args[1])
		if err != nil {
			return err
		}
		if credType == credential.Any {
			return credstore.ErrAnyType
		}

		return withSession(cmd, sessionOptions{offline: true}, func(s *session) error {
			if err := s.store.Delete(tag, credType); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from tag %d\n", credType, tag)
			return nil
		})
	},
}

var deleteAllCmd = &cobra.Command{
	Use:   "deleteall",
	Short: "Delete every user credential",
	Long: `Delete every credential of a writable type outside the reserved
security tag range. Modem-owned credentials are left in place.

Examples:
  nrfcredstore deleteall
  nrfcredstore deleteall --yes --non-interactive`,
	Args: NoArgsWithUsage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			if nonInteractive {
				return usageError{msg: "deleteall needs --yes when running non-interactively"}
			}
			ok, err := confirm(cmd, "Delete all user credentials on the device? [y/N]: ")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		return withSession(cmd, sessionOptions{offline: true}, func(s *session) error {
			n, err := s.store.DeleteAll()
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d credential(s)\n", n)
			return err
		})
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <tag> <file>",
	Short: "Generate a key pair and save its CSR",
	Long: `Have the modem generate a private key under the given security tag and
write the resulting certificate signing request (DER) to a file.
The private key never leaves the modem.

Examples:
  nrfcredstore generate 42 device.csr.der
  nrfcredstore generate 42 device.csr.der --attributes "O=Nordic Semiconductor,L=Trondheim,C=no,CN=mydevice"`,
	Args: ExactArgsWithUsage(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := credential.ParseTag(args[0])
		if err != nil {
			return err
		}
		attributes, _ := cmd.Flags().GetString("attributes")

		// The file is only touched once the modem has returned a CSR.
		return withSession(cmd, sessionOptions{offline: true}, func(s *session) error {
			var csr bytes.Buffer
			segments, err := s.store.Keygen(tag, &csr, attributes)
			if err != nil {
				return err
			}
			logger.Debug("keygen response decoded", "segments", len(segments), "csr_bytes", csr.Len())
			if err := os.WriteFile(args[1], csr.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write CSR file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CSR for tag %d written to %s\n", tag, args[1])
			return nil
		})
	},
}

func parseTagAndType(tagArg, typeArg string) (uint32, credential.Type, error) {
	tag, err := credential.ParseTag(tagArg)
	if err != nil {
		return 0, 0, err
	}
	credType, err := credential.ParseType(typeArg)
	if err != nil {
		return 0, 0, err
	}
	return tag, credType, nil
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprint(cmd.ErrOrStderr(), question)
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
