package core_test

import (
	"testing"

	"github.com/orhanozan33/baharat-sub000/internal/core"
)

func TestPaymentProposal_NormalizationAndValidation(t *testing.T) {
	tests := []struct {
		name      string
		proposal  core.PaymentProposal
		expectErr bool
	}{
		{
			name: "happy path",
			proposal: core.PaymentProposal{
				DealerCode:  "ACME",
				Amount:      "1500.00",
				Method:      "bank_transfer",
				PaymentDate: "2025-06-10",
			},
			expectErr: false,
		},
		{
			name: "messy method spelling is canonicalized",
			proposal: core.PaymentProposal{
				DealerCode:  " acme ",
				Amount:      "200.00",
				Method:      "Bank Transfer",
				PaymentDate: "2025-06-10",
			},
			expectErr: false,
		},
		{
			name: "wire maps to bank_transfer",
			proposal: core.PaymentProposal{
				DealerCode:  "ACME",
				Amount:      "200.00",
				Method:      "wire",
				PaymentDate: "2025-06-10",
			},
			expectErr: false,
		},
		{
			name: "empty date defaults to today",
			proposal: core.PaymentProposal{
				DealerCode: "ACME",
				Amount:     "200.00",
				Method:     "cash",
			},
			expectErr: false,
		},
		{
			name: "null amount fails after normalization",
			proposal: core.PaymentProposal{
				DealerCode:  "ACME",
				Amount:      "null",
				Method:      "cash",
				PaymentDate: "2025-06-10",
			},
			expectErr: true,
		},
		{
			name: "zero amount rejected",
			proposal: core.PaymentProposal{
				DealerCode:  "ACME",
				Amount:      "0.00",
				Method:      "cash",
				PaymentDate: "2025-06-10",
			},
			expectErr: true,
		},
		{
			name: "negative amount rejected",
			proposal: core.PaymentProposal{
				DealerCode:  "ACME",
				Amount:      "-50",
				Method:      "cash",
				PaymentDate: "2025-06-10",
			},
			expectErr: true,
		},
		{
			name: "missing dealer code rejected",
			proposal: core.PaymentProposal{
				Amount:      "50",
				Method:      "cash",
				PaymentDate: "2025-06-10",
			},
			expectErr: true,
		},
		{
			name: "unknown method rejected",
			proposal: core.PaymentProposal{
				DealerCode:  "ACME",
				Amount:      "50",
				Method:      "barter",
				PaymentDate: "2025-06-10",
			},
			expectErr: true,
		},
		{
			name: "malformed date rejected",
			proposal: core.PaymentProposal{
				DealerCode:  "ACME",
				Amount:      "50",
				Method:      "cash",
				PaymentDate: "10/06/2025",
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.proposal
			p.Normalize()
			err := p.Validate()
			if tt.expectErr && err == nil {
				t.Errorf("expected error, got nil (proposal after normalize: %+v)", p)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPaymentProposal_NormalizeUppercasesDealerCode(t *testing.T) {
	p := core.PaymentProposal{DealerCode: "  acme  ", Amount: "10", Method: "cash"}
	p.Normalize()
	if p.DealerCode != "ACME" {
		t.Errorf("dealer code = %q, want ACME", p.DealerCode)
	}
}
