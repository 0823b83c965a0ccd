package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"synnergy-multiledger/internal/ledger"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "token", Short: "token lifecycle: create, inspect, mint, burn, fee"}
	cmd.AddCommand(
		tokenCreateCmd(), tokenGetCmd(), tokenListCmd(),
		tokenMintCmd(), tokenBurnCmd(), tokenBurnFromCmd(), tokenFeeCmd(),
	)
	return cmd
}

func tokenCreateCmd() *cobra.Command {
	var caller, name, symbol, totalSupply, fee, logo, description string
	var decimals uint8
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create a new token (controller only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			callerP, err := decodeHexController(caller)
			if err != nil {
				return err
			}
			supply, err := parseAmountArg(totalSupply)
			if err != nil {
				return err
			}
			feeAmt, err := parseAmountArg(fee)
			if err != nil {
				return err
			}
			tokenArgs := ledger.CreateTokenArgs{Name: name, Symbol: symbol, Decimals: decimals, TotalSupply: supply, Fee: feeAmt}
			if logo != "" {
				tokenArgs.Logo = &logo
			}
			if description != "" {
				tokenArgs.Description = &description
			}
			id, err := c.CreateToken(callerP, tokenArgs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "hex controller principal")
	cmd.Flags().StringVar(&name, "name", "", "token name")
	cmd.Flags().StringVar(&symbol, "symbol", "", "token symbol")
	cmd.Flags().Uint8Var(&decimals, "decimals", 8, "token decimals")
	cmd.Flags().StringVar(&totalSupply, "total-supply", "", "bootstrap supply credited to caller (default 0)")
	cmd.Flags().StringVar(&fee, "fee", "", "transfer fee (default 10000)")
	cmd.Flags().StringVar(&logo, "logo", "", "logo URI")
	cmd.Flags().StringVar(&description, "description", "", "description")
	return cmd
}

func tokenGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <token-id>",
		Short: "show a token's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			id, err := parseTokenIDArg(args[0])
			if err != nil {
				return err
			}
			m, err := c.GetTokenMetadata(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "name=%s symbol=%s decimals=%d total_supply=%s fee=%s\n",
				m.Name, m.Symbol, m.Decimals, m.TotalSupply, m.Fee)
			return nil
		},
	}
}

func tokenListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list every known token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			tokens, err := c.ListTokens()
			if err != nil {
				return err
			}
			for _, t := range tokens {
				fmt.Fprintf(cmd.OutOrStdout(), "%x\t%s\t%s\t%s\n", t.TokenID, t.Metadata.Symbol, t.Metadata.Name, t.Metadata.TotalSupply)
			}
			return nil
		},
	}
}

func tokenMintCmd() *cobra.Command {
	var caller, to, amount, memo string
	cmd := &cobra.Command{
		Use:   "mint <token-id>",
		Short: "mint tokens to an account (controller only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			id, err := parseTokenIDArg(args[0])
			if err != nil {
				return err
			}
			callerP, err := decodeHexController(caller)
			if err != nil {
				return err
			}
			toAcct, err := parseAccountArg(to)
			if err != nil {
				return err
			}
			amt, err := parseAmountArg(amount)
			if err != nil {
				return err
			}
			memoBytes, err := parseMemoArg(memo)
			if err != nil {
				return err
			}
			txID, err := c.Mint(callerP, id, ledger.MintArgs{To: toAcct, Amount: amt, Memo: memoBytes})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), txID)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "hex controller principal")
	cmd.Flags().StringVar(&to, "to", "", "hex recipient account (owner[:subaccount])")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to mint")
	cmd.Flags().StringVar(&memo, "memo", "", "hex memo")
	return cmd
}

func tokenBurnCmd() *cobra.Command {
	var caller, amount, memo string
	cmd := &cobra.Command{
		Use:   "burn <token-id>",
		Short: "burn tokens from the caller's default account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			id, err := parseTokenIDArg(args[0])
			if err != nil {
				return err
			}
			callerP, err := decodeHexController(caller)
			if err != nil {
				return err
			}
			amt, err := parseAmountArg(amount)
			if err != nil {
				return err
			}
			memoBytes, err := parseMemoArg(memo)
			if err != nil {
				return err
			}
			txID, err := c.Burn(callerP, id, ledger.BurnArgs{Amount: amt, Memo: memoBytes})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), txID)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "hex caller principal")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to burn")
	cmd.Flags().StringVar(&memo, "memo", "", "hex memo")
	return cmd
}

func tokenBurnFromCmd() *cobra.Command {
	var caller, from, amount, memo string
	cmd := &cobra.Command{
		Use:   "burn-from <token-id>",
		Short: "burn tokens from an arbitrary account (controller only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			id, err := parseTokenIDArg(args[0])
			if err != nil {
				return err
			}
			callerP, err := decodeHexController(caller)
			if err != nil {
				return err
			}
			fromAcct, err := parseAccountArg(from)
			if err != nil {
				return err
			}
			amt, err := parseAmountArg(amount)
			if err != nil {
				return err
			}
			memoBytes, err := parseMemoArg(memo)
			if err != nil {
				return err
			}
			txID, err := c.BurnFrom(callerP, id, ledger.BurnFromArgs{From: fromAcct, Amount: amt, Memo: memoBytes})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), txID)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "hex controller principal")
	cmd.Flags().StringVar(&from, "from", "", "hex source account (owner[:subaccount])")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to burn")
	cmd.Flags().StringVar(&memo, "memo", "", "hex memo")
	return cmd
}

func tokenFeeCmd() *cobra.Command {
	var caller, fee string
	cmd := &cobra.Command{
		Use:   "fee <token-id>",
		Short: "set a token's transfer fee (controller only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			id, err := parseTokenIDArg(args[0])
			if err != nil {
				return err
			}
			callerP, err := decodeHexController(caller)
			if err != nil {
				return err
			}
			feeAmt, err := parseAmountArg(fee)
			if err != nil {
				return err
			}
			if err := c.SetTokenFee(callerP, id, feeAmt); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "hex controller principal")
	cmd.Flags().StringVar(&fee, "fee", "", "new fee")
	return cmd
}
