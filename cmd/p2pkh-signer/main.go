// p2pkh-signer CLI - legacy P2PKH transaction builder and signer
//
// This CLI builds a single-input, single-output legacy transaction,
// signs it with a WIF key and prints the broadcast-ready hex.
//
// Example usage:
//
//	# Spend 100000 sats, send 90000 back to the key's own address.
//	# The network follows the WIF version byte.
//	p2pkh-signer sign --wif cV... --prev-txid <txid> --prev-index 0 \
//	  --prev-amount 100000 --amount 90000
//
//	# Inspect a raw transaction
//	p2pkh-signer decode <hex>
//
//	# Show the address controlled by a key
//	p2pkh-signer address --wif cV...
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suffix-labs/p2pkh-signer/pkg/api"
	"github.com/suffix-labs/p2pkh-signer/pkg/crypto"
	"github.com/suffix-labs/p2pkh-signer/pkg/script"
	"github.com/suffix-labs/p2pkh-signer/pkg/tx"
)

const (
	version = "v0.1.0"

	// wifEnv supplies the key when --wif is not given
	wifEnv = "P2PKH_SIGNER_WIF"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command, args := os.Args[1], os.Args[2:]

	var err error
	switch command {
	case "sign":
		err = cmdSign(args, os.Stdout)
	case "sighash":
		err = cmdSighash(args, os.Stdout)
	case "decode":
		err = cmdDecode(args, os.Stdout)
	case "txid":
		err = cmdTxID(args, os.Stdout)
	case "address":
		err = cmdAddress(args, os.Stdout)
	case "version":
		fmt.Printf("p2pkh-signer %s\n", version)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `p2pkh-signer - legacy P2PKH transaction builder

Usage:
  p2pkh-signer <command> [options]

Commands:
  sign       Build and sign a transaction, print its hex
  sighash    Print the signature hash of the unsigned transaction
  decode     Decode raw transaction hex
  txid       Print the transaction ID of raw transaction hex
  address    Print the P2PKH address of a WIF key
  version    Show version information
  help       Show this help message

Run 'p2pkh-signer <command> --help' for command options.`)
}

// spendFlags are shared by sign and sighash.
type spendFlags struct {
	wif        *string
	prevTxID   *string
	rawTxID    *bool
	prevIndex  *uint32
	prevAmount *uint64
	amount     *uint64
	to         *string
	sequence   *uint32
	lockTime   *uint32
	txVersion  *uint32
	verbose    *bool
}

func newSpendFlags(name string) (*flag.FlagSet, *spendFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f := &spendFlags{
		wif:        fs.String("wif", "", "private key in WIF (default $"+wifEnv+")"),
		prevTxID:   fs.String("prev-txid", "", "txid of the output being spent, as shown by explorers"),
		rawTxID:    fs.Bool("raw-txid", false, "treat --prev-txid as internal byte order (do not reverse)"),
		prevIndex:  fs.Uint32("prev-index", 0, "output index being spent"),
		prevAmount: fs.Uint64("prev-amount", 0, "value of the output being spent, in satoshis"),
		amount:     fs.Uint64("amount", 0, "value to send, in satoshis (fee = prev-amount - amount)"),
		to:         fs.String("to", "", "destination P2PKH address (default: the key's own address)"),
		sequence:   fs.Uint32("sequence", tx.DefaultSequence, "input sequence number"),
		lockTime:   fs.Uint32("locktime", tx.DefaultLockTime, "transaction locktime"),
		txVersion:  fs.Uint32("tx-version", tx.DefaultVersion, "transaction version"),
		verbose:    fs.BoolP("verbose", "v", false, "log progress to stderr"),
	}
	return fs, f
}

func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// spend is a parsed single-input, single-output request.
type spend struct {
	key      *crypto.PrivateKey
	proposal *api.TransactionProposal
}

func (f *spendFlags) build(log *zap.SugaredLogger) (*spend, error) {
	wif := *f.wif
	if wif == "" {
		wif = os.Getenv(wifEnv)
	}
	if wif == "" {
		return nil, errors.Newf("no key given: set --wif or $%s", wifEnv)
	}

	key, err := crypto.ParsePrivateKeyWIF(wif)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse WIF")
	}
	pub := key.PublicKey()
	log.Infow("key loaded", "pubkey", hex.EncodeToString(pub.Bytes()), "testnet", key.Testnet())

	prevTxID, err := parseTxID(*f.prevTxID, *f.rawTxID)
	if err != nil {
		return nil, err
	}

	prevScript := script.P2PKHLockingScript(pub.SerializeCompressed())

	destScript := prevScript
	if *f.to != "" {
		hash, addrVersion, err := script.DecodeAddress(*f.to)
		if err != nil {
			return nil, errors.Wrap(err, "invalid --to")
		}
		if (addrVersion == script.AddressVersionTestnet) != key.Testnet() {
			return nil, errors.Newf("--to %s is on a different network than the key", *f.to)
		}
		destScript = script.P2PKHLockingScriptFromHash(hash)
	}

	if *f.amount == 0 {
		return nil, errors.New("--amount is required")
	}

	sequence, lockTime := *f.sequence, *f.lockTime
	proposal := &api.TransactionProposal{
		Version:  *f.txVersion,
		LockTime: &lockTime,
		Inputs: []api.Input{{
			TxID:         prevTxID,
			OutputIndex:  *f.prevIndex,
			Value:        *f.prevAmount,
			ScriptPubKey: prevScript,
			Sequence:     &sequence,
		}},
		Outputs: []api.Output{{
			Value:        *f.amount,
			ScriptPubKey: destScript,
		}},
	}

	fee, err := proposal.Fee()
	if err != nil {
		return nil, errors.Wrap(err, "invalid amounts")
	}
	log.Infow("spend", "prev-amount", *f.prevAmount, "amount", *f.amount, "fee", fee)

	return &spend{key: key, proposal: proposal}, nil
}

func parseTxID(s string, raw bool) ([32]byte, error) {
	var id [32]byte
	if s == "" {
		return id, errors.New("--prev-txid is required")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, errors.Wrap(err, "invalid --prev-txid")
	}
	if len(b) != 32 {
		return id, errors.Newf("--prev-txid must be 32 bytes, got %d", len(b))
	}
	if !raw {
		b = tx.ReverseBytes(b)
	}
	copy(id[:], b)
	return id, nil
}

func cmdSign(args []string, out io.Writer) error {
	fs, f := newSpendFlags("sign")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := newLogger(*f.verbose)
	defer func() { _ = log.Sync() }()

	s, err := f.build(log)
	if err != nil {
		return err
	}

	t, err := api.ProposeTransaction(s.proposal)
	if err != nil {
		return errors.Wrap(err, "failed to build transaction")
	}

	if err := api.SignAll(t, s.key, s.proposal.PrevOuts()); err != nil {
		return errors.Wrap(err, "failed to sign transaction")
	}

	rawHex, err := api.FinalizeAndExtract(t)
	if err != nil {
		return errors.Wrap(err, "failed to extract transaction")
	}
	log.Infow("signed", "txid", t.TxIDHex(), "size", t.SerializeSize())

	fmt.Fprintln(out, rawHex)
	return nil
}

func cmdSighash(args []string, out io.Writer) error {
	fs, f := newSpendFlags("sighash")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := newLogger(*f.verbose)
	defer func() { _ = log.Sync() }()

	s, err := f.build(log)
	if err != nil {
		return err
	}

	t, err := api.ProposeTransaction(s.proposal)
	if err != nil {
		return errors.Wrap(err, "failed to build transaction")
	}

	sighash, err := api.GetSighash(t, 0, s.proposal.Inputs[0].PrevOut())
	if err != nil {
		return errors.Wrap(err, "failed to compute sighash")
	}

	fmt.Fprintln(out, hex.EncodeToString(sighash[:]))
	return nil
}

func rawArg(name string, args []string) (*tx.Transaction, error) {
	if len(args) != 1 {
		return nil, errors.Newf("usage: p2pkh-signer %s <hex>", name)
	}
	t, err := api.DecodeTransaction(args[0])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode transaction")
	}
	return t, nil
}

func cmdDecode(args []string, out io.Writer) error {
	t, err := rawArg("decode", args)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "txid:     %s\n", t.TxIDHex())
	fmt.Fprintf(out, "version:  %d\n", t.Version)
	fmt.Fprintf(out, "locktime: %d\n", t.LockTime)
	fmt.Fprintf(out, "size:     %d bytes\n", t.SerializeSize())

	fmt.Fprintf(out, "inputs:   %d\n", len(t.Inputs))
	for i, in := range t.Inputs {
		fmt.Fprintf(out, "  [%d] %s:%d sequence=0x%08x\n",
			i, hex.EncodeToString(tx.ReverseBytes(in.PrevTxID[:])), in.PrevIndex, in.Sequence)
		fmt.Fprintf(out, "      scriptSig: %s\n", hex.EncodeToString(in.ScriptSig))
		if sig, pub, err := script.ParseUnlockingScript(in.ScriptSig); err == nil {
			fmt.Fprintf(out, "      signature: %s\n", hex.EncodeToString(sig))
			fmt.Fprintf(out, "      pubkey:    %s\n", hex.EncodeToString(pub))
		}
	}

	fmt.Fprintf(out, "outputs:  %d\n", len(t.Outputs))
	for i, o := range t.Outputs {
		fmt.Fprintf(out, "  [%d] value=%d\n", i, o.Value)
		fmt.Fprintf(out, "      scriptPubKey: %s\n", hex.EncodeToString(o.ScriptPubKey))
		if hash, ok := script.ExtractP2PKH(o.ScriptPubKey); ok {
			fmt.Fprintf(out, "      address:      %s (mainnet) %s (testnet)\n",
				script.Address(hash, script.AddressVersionMainnet),
				script.Address(hash, script.AddressVersionTestnet))
		}
	}
	return nil
}

func cmdTxID(args []string, out io.Writer) error {
	t, err := rawArg("txid", args)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, t.TxIDHex())
	return nil
}

func cmdAddress(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("address", flag.ContinueOnError)
	wif := fs.String("wif", "", "private key in WIF (default $"+wifEnv+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *wif == "" {
		*wif = os.Getenv(wifEnv)
	}
	key, err := crypto.ParsePrivateKeyWIF(*wif)
	if err != nil {
		return errors.Wrap(err, "failed to parse WIF")
	}

	addrVersion := script.AddressVersionMainnet
	if key.Testnet() {
		addrVersion = script.AddressVersionTestnet
	}
	fmt.Fprintln(out, script.Address(key.PublicKey().Hash160(), addrVersion))
	return nil
}
