// Package mapping resolves arbitrary spreadsheet columns onto the fixed
// campaign-import schema. It owns the target-field alias tables, the
// two-pass header auto-mapper, the row mapper that builds typed import
// records, and the advisory required-field validation.
package mapping

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/harukimedia/giftflow/internal/domain/import/normalizer"
)

// TargetField is a named slot in the canonical campaign-import schema.
type TargetField string

const (
	FieldBrand                 TargetField = "brand"
	FieldInstaName             TargetField = "insta_name"
	FieldTikTokName            TargetField = "tiktok_name"
	FieldFollowerCount         TargetField = "follower_count"
	FieldItemCode              TargetField = "item_code"
	FieldQuantity              TargetField = "quantity"
	FieldSaleDate              TargetField = "sale_date"
	FieldDesiredPostDate       TargetField = "desired_post_date"
	FieldAgreedDate            TargetField = "agreed_date"
	FieldActualPostDate        TargetField = "actual_post_date"
	FieldOfferedAmount         TargetField = "offered_amount"
	FieldAgreedAmount          TargetField = "agreed_amount"
	FieldStatus                TargetField = "status"
	FieldLikes                 TargetField = "likes"
	FieldComments              TargetField = "comments"
	FieldConsiderationComments TargetField = "consideration_comments"
	FieldIsInternational       TargetField = "is_international"
	FieldShippingCountry       TargetField = "shipping_country"
	FieldShippingCost          TargetField = "shipping_cost"
)

// fieldKind drives which coercer the row mapper applies to a cell.
type fieldKind int

const (
	kindString fieldKind = iota
	kindHandle
	kindNumber
	kindDate
	kindStatus
	kindBool
)

// FieldSpec declares one target field with its ordered alias list.
// Alias lists may overlap between fields; during matching the
// first-declared field always wins a tie.
type FieldSpec struct {
	Field   TargetField
	Kind    fieldKind
	Aliases []string
}

// Fields is the canonical schema in declaration order. Header matching
// walks this slice top to bottom, so more specific fields are declared
// before fields with short generic aliases.
var Fields = []FieldSpec{
	{FieldBrand, kindString, []string{"brand", "ブランド", "ブランド名", "brand name", "メーカー"}},
	{FieldInstaName, kindHandle, []string{"instagram名", "instagram name", "insta name", "instagram", "insta", "インスタ名", "インスタ", "ig", "アカウント名"}},
	{FieldTikTokName, kindHandle, []string{"tiktok名", "tiktok name", "tiktok", "ティックトック", "tt name"}},
	{FieldFollowerCount, kindNumber, []string{"follower count", "followers", "フォロワー数", "フォロワー"}},
	{FieldItemCode, kindString, []string{"item code", "品番", "商品コード", "sku", "型番", "item no"}},
	{FieldQuantity, kindNumber, []string{"quantity", "qty", "数量", "個数", "点数"}},
	{FieldSaleDate, kindDate, []string{"sale date", "販売日", "売上日", "sold date", "sale"}},
	{FieldDesiredPostDate, kindDate, []string{"desired post date", "投稿希望日", "希望投稿日", "post by"}},
	{FieldAgreedDate, kindDate, []string{"agreed date", "合意日", "承諾日"}},
	{FieldActualPostDate, kindDate, []string{"actual post date", "投稿日", "実投稿日", "posted date", "posted"}},
	{FieldOfferedAmount, kindNumber, []string{"offered amount", "提示金額", "オファー金額", "offer"}},
	{FieldAgreedAmount, kindNumber, []string{"agreed amount", "合意金額", "報酬", "金額", "amount"}},
	{FieldStatus, kindStatus, []string{"status", "ステータス", "状態", "進捗"}},
	{FieldLikes, kindNumber, []string{"likes", "いいね数", "いいね", "like count"}},
	{FieldComments, kindNumber, []string{"comments", "コメント数", "コメント", "comment count"}},
	{FieldConsiderationComments, kindNumber, []string{"consideration comments", "検討コメント数", "検討コメント", "purchase intent comments"}},
	{FieldIsInternational, kindBool, []string{"international", "海外発送", "海外", "international shipping"}},
	{FieldShippingCountry, kindString, []string{"shipping country", "発送先国", "発送先", "country", "国"}},
	{FieldShippingCost, kindNumber, []string{"shipping cost", "送料", "配送料"}},
}

// HandleFields are the fields that can identify an influencer. A row that
// resolves neither is dropped by the row mapper.
var HandleFields = []TargetField{FieldInstaName, FieldTikTokName}

// KnownField reports whether f names a declared target field.
func KnownField(f TargetField) bool {
	for i := range Fields {
		if Fields[i].Field == f {
			return true
		}
	}
	return false
}

// NormalizeHeader lowercases, trims, and collapses runs of whitespace,
// underscores and hyphens into single spaces, so "Instagram_Name" and
// "instagram-name" compare equal to "instagram name".
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	var b strings.Builder
	b.Grow(len(h))
	pendingSpace := false
	for _, r := range h {
		switch r {
		case ' ', '\t', '　', '_', '-':
			pendingSpace = b.Len() > 0
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Record is one candidate campaign mapped out of a spreadsheet row.
// Read-only after construction; editing the header mapping rebuilds all
// records from scratch rather than patching them in place.
type Record struct {
	RowIndex int // 0-based index into the sheet's data rows

	InstaName  string
	TikTokName string

	Brand         string
	ItemCode      string
	Quantity      int
	FollowerCount int

	SaleDate        string
	DesiredPostDate string
	AgreedDate      string
	ActualPostDate  string

	OfferedAmount decimal.Decimal
	AgreedAmount  decimal.Decimal

	Status normalizer.Status

	Likes                 int
	Comments              int
	ConsiderationComments int

	IsInternational bool
	ShippingCountry string
	ShippingCost    decimal.Decimal
}

// Handle returns the identifying influencer handle: Instagram when
// present, otherwise TikTok.
func (r *Record) Handle() string {
	if r.InstaName != "" {
		return r.InstaName
	}
	return r.TikTokName
}
