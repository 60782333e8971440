package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/wallet"
)

// PromptInput asks for a single line of free-form input.
func PromptInput(prompt string) string {
	fmt.Printf("%s: ", StyleMeta.Render(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// DangerBox wraps sensitive content (private keys) in a red-bordered box.
func DangerBox(content string) string {
	return StyleBorder.BorderForeground(ColorError).Render(content)
}

// Confirm prompts the user with a yes/no question. Returns true for yes.
func Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", StyleWarning.Render(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

// ConfirmTx shows a transaction summary and asks the user to approve
// signing. Wire it as the Signer's Confirm hook.
func ConfirmTx(s wallet.TxSummary) bool {
	pairs := [][2]string{
		{"Action", s.Purpose},
		{"To", s.To},
		{"Value", chain.WeiToETH(s.ValueWei) + " ETH"},
		{"Gas limit", fmt.Sprintf("%d", s.Gas)},
	}
	if s.ChainID != nil {
		pairs = append(pairs, [2]string{"Chain ID", s.ChainID.String()})
	}
	fmt.Println(KeyValueBlock("Sign transaction", pairs))
	return Confirm("Sign and send?")
}

// ConfirmDanger is like Confirm but styled with the error color (for destructive actions).
func ConfirmDanger(prompt string) bool {
	fmt.Printf("%s [y/N]: ", StyleError.Render("⚠ "+prompt))
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
