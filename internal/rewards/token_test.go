package rewards_test

import (
	"errors"
	"math/big"
	"testing"

	"awsprep-assessment-service/internal/rewards"
)

func TestMintRewardIsOwnerOnly(t *testing.T) {
	token := rewards.NewToken("AWS Practice Reward", "AWSP", deployer)

	if err := token.MintReward(wallet1, wallet1, big.NewInt(1)); !errors.Is(err, rewards.ErrNotOwner) {
		t.Fatalf("expected owner check, got %v", err)
	}
	if err := token.MintReward(deployer, wallet1, big.NewInt(5)); err != nil {
		t.Fatalf("owner mint: %v", err)
	}
	if token.BalanceOf(wallet1).Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("expected balance 5, got %s", token.BalanceOf(wallet1))
	}
	if token.TotalSupply().Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("expected supply 5, got %s", token.TotalSupply())
	}
}

func TestMintRewardRejectsZeroInputs(t *testing.T) {
	token := rewards.NewToken("AWS Practice Reward", "AWSP", deployer)

	if err := token.MintReward(deployer, "0x0000000000000000000000000000000000000000", big.NewInt(1)); !errors.Is(err, rewards.ErrZeroAddress) {
		t.Fatalf("expected zero address error, got %v", err)
	}
	if err := token.MintReward(deployer, wallet1, big.NewInt(0)); !errors.Is(err, rewards.ErrZeroAmount) {
		t.Fatalf("expected zero amount error, got %v", err)
	}
}

func TestOwnershipTransferEnablesContractMinting(t *testing.T) {
	token := rewards.NewToken("AWS Practice Reward", "AWSP", deployer)

	if err := token.TransferOwnership(wallet1, contractAddr); !errors.Is(err, rewards.ErrNotOwner) {
		t.Fatalf("non-owner transfer should fail, got %v", err)
	}
	if err := token.TransferOwnership(deployer, contractAddr); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}

	if err := token.MintReward(deployer, wallet1, big.NewInt(1)); !errors.Is(err, rewards.ErrNotOwner) {
		t.Fatalf("old owner should lose mint authority, got %v", err)
	}
	if err := token.MintReward(contractAddr, wallet1, big.NewInt(1)); err != nil {
		t.Fatalf("contract mint: %v", err)
	}
}

func TestTransferAndAllowances(t *testing.T) {
	token := rewards.NewToken("AWS Practice Reward", "AWSP", deployer)
	if err := token.MintReward(deployer, wallet1, big.NewInt(10)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	if err := token.Transfer(wallet1, wallet2, big.NewInt(4)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if token.BalanceOf(wallet1).Cmp(big.NewInt(6)) != 0 || token.BalanceOf(wallet2).Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("unexpected balances %s/%s", token.BalanceOf(wallet1), token.BalanceOf(wallet2))
	}
	if err := token.Transfer(wallet2, wallet1, big.NewInt(100)); !errors.Is(err, rewards.ErrInsufficientBalance) {
		t.Fatalf("expected balance error, got %v", err)
	}

	if err := token.TransferFrom(contractAddr, wallet1, wallet2, big.NewInt(1)); !errors.Is(err, rewards.ErrInsufficientAllowance) {
		t.Fatalf("expected allowance error, got %v", err)
	}
	if err := token.Approve(wallet1, contractAddr, big.NewInt(3)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := token.TransferFrom(contractAddr, wallet1, wallet2, big.NewInt(2)); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}
	if token.Allowance(wallet1, contractAddr).Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("expected allowance 1 left, got %s", token.Allowance(wallet1, contractAddr))
	}
}
