package blockchain

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// PackArgs converts manifest values into the Go types abi.Pack expects for
// inputs. Manifest values come from YAML: strings, bools, ints, floats and
// nested lists.
func PackArgs(inputs abi.Arguments, values []any) ([]any, error) {
	if len(inputs) != len(values) {
		return nil, fmt.Errorf("constructor takes %d argument(s), manifest gives %d", len(inputs), len(values))
	}

	out := make([]any, len(values))
	for i, input := range inputs {
		v, err := convert(input.Type, values[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		out[i] = v
	}
	return out, nil
}

func convert(t abi.Type, value any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := value.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("expected a hex address, got %v", value)
		}
		return common.HexToAddress(s), nil

	case abi.BoolTy:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a bool, got %v", value)
		}
		return b, nil

	case abi.StringTy:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %v", value)
		}
		return s, nil

	case abi.IntTy, abi.UintTy:
		n, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		return fitInteger(t, n)

	case abi.BytesTy:
		return toBytes(value)

	case abi.FixedBytesTy:
		b, err := toBytes(value)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a list, got %v", value)
		}
		if t.T == abi.ArrayTy && len(items) != t.Size {
			return nil, fmt.Errorf("expected %d items, got %d", t.Size, len(items))
		}

		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(t.GetType(), len(items), len(items))
		} else {
			out = reflect.New(t.GetType()).Elem()
		}
		for i, item := range items {
			v, err := convert(*t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(v))
		}
		return out.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported constructor argument type")
	}
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return nil, fmt.Errorf("%v is not an exact integer; quote large numbers", v)
		}
		return big.NewInt(int64(v)), nil
	case string:
		n, ok := new(big.Int).SetString(v, 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("expected an integer, got %v", value)
	}
}

// fitInteger range checks n against t and returns the Go type abi.Pack wants:
// sized ints up to 64 bits, *big.Int above
func fitInteger(t abi.Type, n *big.Int) (any, error) {
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("%s is negative", n)
	}

	bits := n.BitLen()
	if t.T == abi.IntTy {
		// two's complement: -2^(k-1) still fits in k bits
		if n.Sign() < 0 {
			bits = new(big.Int).Add(n, big.NewInt(1)).BitLen()
		}
		bits++
	}
	if bits > t.Size {
		return nil, fmt.Errorf("%s overflows %s", n, t.String())
	}

	goType := t.GetType()
	if goType == reflect.TypeOf((*big.Int)(nil)) {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

func toBytes(value any) ([]byte, error) {
	s, ok := value.(string)
	if !ok || !strings.HasPrefix(s, "0x") {
		return nil, fmt.Errorf("expected 0x-prefixed hex, got %v", value)
	}
	return hexutil.Decode(s)
}
