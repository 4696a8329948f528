package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/AtenJin/substrate/state/changestrie"
)

var (
	intervalFlag = cli.Uint64Flag{
		Name:  "interval",
		Usage: "Digest interval of the chain configuration",
		Value: 4,
	}
	levelsFlag = cli.UintFlag{
		Name:  "levels",
		Usage: "Digest levels of the chain configuration",
		Value: 2,
	}
)

var digestBlocksCommand = cli.Command{
	Action:    digestBlocks,
	Name:      "digest-blocks",
	Usage:     "Print the historical blocks folded into the digest built at a block",
	ArgsUsage: "<block>",
	Flags: []cli.Flag{
		&intervalFlag,
		&levelsFlag,
	},
}

var decodeKeyCommand = cli.Command{
	Action:    decodeKey,
	Name:      "decode-key",
	Usage:     "Decode a hex encoded changes trie input key",
	ArgsUsage: "<hex key>",
}

func main() {
	app := &cli.App{
		Name:  "changestrie",
		Usage: "Inspect changes trie digest schedules and keys",
		Commands: []*cli.Command{
			&digestBlocksCommand,
			&decodeKeyCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error("changestrie", "err", err)
		os.Exit(1)
	}
}

func digestBlocks(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one block number argument")
	}
	block, err := strconv.ParseUint(ctx.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing block number: %w", err)
	}
	config := changestrie.Configuration{
		DigestInterval: ctx.Uint64(intervalFlag.Name),
		DigestLevels:   uint8(ctx.Uint(levelsFlag.Name)),
	}
	level, coverage, _, ok := config.DigestLevelAtBlock(block)
	if !ok {
		fmt.Printf("block %d builds no digest\n", block)
		return nil
	}
	fmt.Printf("block %d builds a level %d digest covering %d blocks\n", block, level, coverage)
	it := changestrie.NewDigestBuildIterator(config, block)
	for child, more := it.Next(); more; child, more = it.Next() {
		fmt.Println(child)
	}
	return nil
}

func decodeKey(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one hex key argument")
	}
	enc, err := hex.DecodeString(strings.TrimPrefix(ctx.Args().First(), "0x"))
	if err != nil {
		return fmt.Errorf("parsing hex key: %w", err)
	}
	key, err := changestrie.DecodeInputKey(enc)
	if err != nil {
		return err
	}
	switch key.Kind {
	case changestrie.ExtrinsicInput:
		fmt.Printf("extrinsic index: block %d, key %x\n", key.Block, key.Key)
	case changestrie.DigestInput:
		fmt.Printf("digest index: block %d, key %x\n", key.Block, key.Key)
	}
	return nil
}
