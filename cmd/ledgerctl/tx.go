package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/ledger"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tx", Short: "transfer, approve, transfer-from, and history"}
	cmd.AddCommand(txTransferCmd(), txApproveCmd(), txTransferFromCmd(), txHistoryCmd())
	return cmd
}

func txTransferCmd() *cobra.Command {
	var from, to, amount, fee, memo string
	var createdAtTime uint64
	var hasCreatedAtTime bool
	cmd := &cobra.Command{
		Use:   "transfer <token-id>",
		Short: "transfer between two accounts",
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
			fromAcct, err := parseAccountArg(from)
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
			feeAmt, err := parseAmountArg(fee)
			if err != nil {
				return err
			}
			memoBytes, err := parseMemoArg(memo)
			if err != nil {
				return err
			}
			txArgs := ledger.TransferArgs{From: fromAcct, To: toAcct, Amount: amt, Fee: feeAmt, Memo: memoBytes}
			if hasCreatedAtTime {
				txArgs.CreatedAtTime = &createdAtTime
			}
			txID, err := c.Transfer(id, txArgs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), txID)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "hex source account (owner[:subaccount])")
	cmd.Flags().StringVar(&to, "to", "", "hex destination account (owner[:subaccount])")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to transfer")
	cmd.Flags().StringVar(&fee, "fee", "", "fee (defaults to the token's configured fee)")
	cmd.Flags().StringVar(&memo, "memo", "", "hex memo")
	cmd.Flags().Uint64Var(&createdAtTime, "created-at-time", 0, "ledger-time nanoseconds for dedup")
	cmd.Flags().BoolVar(&hasCreatedAtTime, "with-created-at-time", false, "set to include --created-at-time in the request")
	return cmd
}

func txApproveCmd() *cobra.Command {
	var from, spender, amount, expectedAllowance, fee, memo string
	var expiresAt uint64
	var hasExpiresAt bool
	var createdAtTime uint64
	var hasCreatedAtTime bool
	cmd := &cobra.Command{
		Use:   "approve <token-id>",
		Short: "set an allowance",
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
			fromAcct, err := parseAccountArg(from)
			if err != nil {
				return err
			}
			spenderAcct, err := parseAccountArg(spender)
			if err != nil {
				return err
			}
			amt, err := parseAmountArg(amount)
			if err != nil {
				return err
			}
			expected, err := parseAmountArg(expectedAllowance)
			if err != nil {
				return err
			}
			feeAmt, err := parseAmountArg(fee)
			if err != nil {
				return err
			}
			memoBytes, err := parseMemoArg(memo)
			if err != nil {
				return err
			}
			approveArgs := ledger.ApproveArgs{
				From: fromAcct, Spender: spenderAcct, Amount: amt,
				ExpectedAllowance: expected, Fee: feeAmt, Memo: memoBytes,
			}
			if hasExpiresAt {
				approveArgs.ExpiresAt = &expiresAt
			}
			if hasCreatedAtTime {
				approveArgs.CreatedAtTime = &createdAtTime
			}
			txID, err := c.Approve(id, approveArgs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), txID)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "hex owner account (owner[:subaccount])")
	cmd.Flags().StringVar(&spender, "spender", "", "hex spender account (owner[:subaccount])")
	cmd.Flags().StringVar(&amount, "amount", "", "allowance amount")
	cmd.Flags().StringVar(&expectedAllowance, "expected-allowance", "", "compare-and-swap: current allowance must equal this")
	cmd.Flags().StringVar(&fee, "fee", "", "fee (defaults to the token's configured fee)")
	cmd.Flags().StringVar(&memo, "memo", "", "hex memo")
	cmd.Flags().Uint64Var(&expiresAt, "expires-at", 0, "allowance expiry, ledger-time nanoseconds")
	cmd.Flags().BoolVar(&hasExpiresAt, "with-expires-at", false, "set to include --expires-at in the request")
	cmd.Flags().Uint64Var(&createdAtTime, "created-at-time", 0, "ledger-time nanoseconds for dedup")
	cmd.Flags().BoolVar(&hasCreatedAtTime, "with-created-at-time", false, "set to include --created-at-time in the request")
	return cmd
}

func txTransferFromCmd() *cobra.Command {
	var spender, from, to, amount, fee, memo string
	var createdAtTime uint64
	var hasCreatedAtTime bool
	cmd := &cobra.Command{
		Use:   "transfer-from <token-id>",
		Short: "spend an existing allowance",
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
			spenderAcct, err := parseAccountArg(spender)
			if err != nil {
				return err
			}
			fromAcct, err := parseAccountArg(from)
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
			feeAmt, err := parseAmountArg(fee)
			if err != nil {
				return err
			}
			memoBytes, err := parseMemoArg(memo)
			if err != nil {
				return err
			}
			tfArgs := ledger.TransferFromArgs{Spender: spenderAcct, From: fromAcct, To: toAcct, Amount: amt, Fee: feeAmt, Memo: memoBytes}
			if hasCreatedAtTime {
				tfArgs.CreatedAtTime = &createdAtTime
			}
			txID, err := c.TransferFrom(id, tfArgs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), txID)
			return nil
		},
	}
	cmd.Flags().StringVar(&spender, "spender", "", "hex spender account (owner[:subaccount]); owner is the caller")
	cmd.Flags().StringVar(&from, "from", "", "hex owner account (owner[:subaccount])")
	cmd.Flags().StringVar(&to, "to", "", "hex destination account (owner[:subaccount])")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to transfer")
	cmd.Flags().StringVar(&fee, "fee", "", "fee (defaults to the token's configured fee)")
	cmd.Flags().StringVar(&memo, "memo", "", "hex memo")
	cmd.Flags().Uint64Var(&createdAtTime, "created-at-time", 0, "ledger-time nanoseconds for dedup")
	cmd.Flags().BoolVar(&hasCreatedAtTime, "with-created-at-time", false, "set to include --created-at-time in the request")
	return cmd
}

func txHistoryCmd() *cobra.Command {
	var start, limit uint64
	var hasStart, hasLimit bool
	cmd := &cobra.Command{
		Use:   "history <token-id>",
		Short: "paginate a token's transaction log",
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
			var startPtr, limitPtr *uint64
			if hasStart {
				startPtr = &start
			}
			if hasLimit {
				limitPtr = &limit
			}
			txs, err := c.GetTransactions(&id, startPtr, limitPtr)
			if err != nil {
				return err
			}
			for i, tx := range txs {
				printStoredTx(cmd, uint64(i), tx)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&start, "start", 0, "first log index to read")
	cmd.Flags().BoolVar(&hasStart, "with-start", false, "set to include --start in the request")
	cmd.Flags().Uint64Var(&limit, "limit", 0, "max records to read (server default 100, cap 1000)")
	cmd.Flags().BoolVar(&hasLimit, "with-limit", false, "set to include --limit in the request")
	return cmd
}

func printStoredTx(cmd *cobra.Command, i uint64, tx entity.StoredTx) {
	amount := entity.DecodeAmount128(tx.Amount[:])
	fee := entity.DecodeAmount128(tx.Fee[:])
	fmt.Fprintf(cmd.OutOrStdout(), "%d\top=%d from=%x to=%x spender=%x amount=%s fee=%s ts=%d memo=%x\n",
		i, tx.Op, tx.FromOwner, tx.ToOwner, tx.SpenderOwner, amount, fee, tx.Timestamp, tx.Memo)
}
