package virtualwallet

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/definix-labs/definix/internal/chainclient/mock"
)

var (
	contractAddr = common.HexToAddress("0x797ADa8Bca5B5Da273C0bbD677EBaC447884B23D")
	user         = common.HexToAddress("0x1111111111111111111111111111111111111111")
	usdc         = common.HexToAddress("0x7F5c764cBc14f9669B88837ca1490cCa17c31607")
)

func newTestWallet(t *testing.T) (*VirtualWallet, *mock.Backend) {
	t.Helper()
	parsed, err := VirtualWalletMetaData.GetAbi()
	if err != nil {
		t.Fatal(err)
	}
	backend := mock.New().Deploy(contractAddr, parsed)
	vw, err := NewVirtualWallet(contractAddr, backend)
	if err != nil {
		t.Fatalf("NewVirtualWallet: %v", err)
	}
	return vw, backend
}

func opts() *bind.CallOpts {
	return &bind.CallOpts{Context: context.Background()}
}

func TestABIMethods(t *testing.T) {
	vw, _ := newTestWallet(t)

	want := []string{
		"createVirtualWallet", "getUserBalances", "getConversionQuote",
		"convertToETH", "convertToUSDC", "depositToETH", "depositToUSDC",
		"withdrawETH", "withdrawUSDC", "getUSDqBalance", "getVirtualBalance",
		"getSpendingCap", "walletExists", "getTotalWallets",
	}
	for _, name := range want {
		if _, ok := vw.ABI().Methods[name]; !ok {
			t.Errorf("ABI missing %s", name)
		}
	}
	if vw.Address() != contractAddr {
		t.Errorf("Address() = %s", vw.Address().Hex())
	}
}

func TestGetUserBalances(t *testing.T) {
	vw, backend := newTestWallet(t)
	backend.Handle(contractAddr, "getUserBalances", func(args []interface{}) ([]interface{}, error) {
		if args[0].(common.Address) != user {
			t.Errorf("user = %v", args[0])
		}
		return []interface{}{big.NewInt(1500000), big.NewInt(2000000000000000000)}, nil
	})

	got, err := vw.GetUserBalances(opts(), user)
	if err != nil {
		t.Fatalf("GetUserBalances: %v", err)
	}
	if got.UsdcBalance.Int64() != 1500000 {
		t.Errorf("UsdcBalance = %s", got.UsdcBalance)
	}
	if got.EthBalance.String() != "2000000000000000000" {
		t.Errorf("EthBalance = %s", got.EthBalance)
	}
}

func TestGetConversionQuote(t *testing.T) {
	vw, backend := newTestWallet(t)
	backend.Returns(contractAddr, "getConversionQuote",
		big.NewInt(1000), big.NewInt(990), big.NewInt(5), big.NewInt(4))

	q, err := vw.GetConversionQuote(opts(), big.NewInt(1000))
	if err != nil {
		t.Fatalf("GetConversionQuote: %v", err)
	}
	if q.UsdcOutput.Int64() != 1000 || q.MinUsdcOutput.Int64() != 990 ||
		q.EthOutput.Int64() != 5 || q.MinEthOutput.Int64() != 4 {
		t.Errorf("quote = %+v", q)
	}
}

func TestScalarViews(t *testing.T) {
	vw, backend := newTestWallet(t)
	backend.Returns(contractAddr, "walletExists", true)
	backend.Returns(contractAddr, "getTotalWallets", big.NewInt(77))
	backend.Returns(contractAddr, "getUSDqBalance", big.NewInt(11))
	backend.Returns(contractAddr, "getVirtualBalance", big.NewInt(22))
	backend.Returns(contractAddr, "getSpendingCap", big.NewInt(33))

	exists, err := vw.WalletExists(opts(), user)
	if err != nil || !exists {
		t.Errorf("WalletExists = %v, %v", exists, err)
	}
	if n, err := vw.GetTotalWallets(opts()); err != nil || n.Int64() != 77 {
		t.Errorf("GetTotalWallets = %v, %v", n, err)
	}
	if n, err := vw.GetUSDqBalance(opts(), user); err != nil || n.Int64() != 11 {
		t.Errorf("GetUSDqBalance = %v, %v", n, err)
	}
	if n, err := vw.GetVirtualBalance(opts(), user, usdc); err != nil || n.Int64() != 22 {
		t.Errorf("GetVirtualBalance = %v, %v", n, err)
	}
	if n, err := vw.GetSpendingCap(opts(), usdc); err != nil || n.Int64() != 33 {
		t.Errorf("GetSpendingCap = %v, %v", n, err)
	}
}

func TestViewError(t *testing.T) {
	vw, backend := newTestWallet(t)
	callErr := errors.New("execution reverted")
	backend.Fails(contractAddr, "walletExists", callErr)

	if _, err := vw.WalletExists(opts(), user); !errors.Is(err, callErr) {
		t.Errorf("WalletExists error = %v, want %v", err, callErr)
	}
}

func TestPackWrites(t *testing.T) {
	vw, _ := newTestWallet(t)
	amount := big.NewInt(1000000)
	minOut := big.NewInt(999000)

	tests := []struct {
		name   string
		method string
		pack   func() ([]byte, error)
		nargs  int
	}{
		{"create", "createVirtualWallet", vw.PackCreateVirtualWallet, 0},
		{"convert eth", "convertToETH", func() ([]byte, error) { return vw.PackConvertToETH(user, amount, minOut) }, 3},
		{"convert usdc", "convertToUSDC", func() ([]byte, error) { return vw.PackConvertToUSDC(user, amount, minOut) }, 3},
		{"deposit eth", "depositToETH", func() ([]byte, error) { return vw.PackDepositToETH(usdc, amount, user, minOut) }, 4},
		{"deposit usdc", "depositToUSDC", func() ([]byte, error) { return vw.PackDepositToUSDC(usdc, amount, user, minOut) }, 4},
		{"withdraw eth", "withdrawETH", func() ([]byte, error) { return vw.PackWithdrawETH(amount, minOut) }, 2},
		{"withdraw usdc", "withdrawUSDC", func() ([]byte, error) { return vw.PackWithdrawUSDC(amount, minOut) }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.pack()
			if err != nil {
				t.Fatalf("pack: %v", err)
			}
			if len(data) != 4+32*tt.nargs {
				t.Errorf("calldata length = %d, want %d", len(data), 4+32*tt.nargs)
			}
			method, err := vw.ABI().MethodById(data[:4])
			if err != nil {
				t.Fatalf("MethodById: %v", err)
			}
			if method.Name != tt.method {
				t.Errorf("method = %s, want %s", method.Name, tt.method)
			}
		})
	}
}

func TestPackPassesMinOutputThrough(t *testing.T) {
	vw, _ := newTestWallet(t)
	minOut := big.NewInt(123456789)

	data, err := vw.PackDepositToUSDC(usdc, big.NewInt(1), user, minOut)
	if err != nil {
		t.Fatal(err)
	}
	args, err := vw.ABI().Methods["depositToUSDC"].Inputs.Unpack(data[4:])
	if err != nil {
		t.Fatal(err)
	}
	if args[0].(common.Address) != usdc || args[2].(common.Address) != user {
		t.Errorf("address args = %v", args)
	}
	if args[3].(*big.Int).Cmp(minOut) != 0 {
		t.Errorf("minOutput = %v, want %s", args[3], minOut)
	}
}
