package risk

import "regexp"

// Pattern lists used by the risk signals. Substring checks run against the
// lowercased text, so every entry here must be lowercase.

var piiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{10,11}\b`),                              // phone / national id
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), // email
	regexp.MustCompile(`\bTR\d{24}\b`),                               // IBAN
}

var boilerplateKeywords = []string{
	"çerez",
	"cookie",
	"privacy",
	"gizlilik",
	"terms",
	"koşullar",
	"hakları saklıdır",
	"all rights reserved",
}

var toxicKeywords = []string{
	"porn",
	"sex",
	"fuck",
	"shit",
	"amk",
	"orospu",
}

var ecommerceKeywords = []string{
	"sepete ekle",
	"add to cart",
	"buy now",
	"hemen al",
	"satın al",
	"stokta",
	"in stock",
	"indirim",
	"discount",
	"kampanya",
	"ürün kodu",
	"product code",
	"beden",
	"sipariş",
	"order now",
}

var seoKeywords = []string{
	"en iyi fiyat",
	"best price",
	"tıklayın",
	"click here",
	"hemen tıkla",
	"daha fazla bilgi için",
	"ucuz",
	"cheap",
	"fırsat",
	"güvenilir site",
	"resmi site",
}

var astrologyKeywords = []string{
	"burç",
	"burcu",
	"horoscope",
	"astroloji",
	"astrology",
	"yükselen",
	"retro",
	"zodiac",
	"tarot",
	"günlük burç yorumu",
}

var forumSpamKeywords = []string{
	"teşekkürler",
	"thanks",
	"eyvallah",
	"güzel paylaşım",
	"nice post",
	"konu güncel",
	"up",
	"hocam",
	"+1",
	"aynen",
}

var socialMediaKeywords = []string{
	"takip et",
	"follow me",
	"beğen",
	"like and share",
	"abone ol",
	"subscribe",
	"retweet",
	"dm",
	"story",
	"influencer",
}

var sizeChartKeywords = []string{"boyut grafiği", "size chart", "cm/inç", "cm/inch"}

var shippingKeywords = []string{"kargo", "shipping", "teslimat", "delivery"}

var shortThanksKeywords = []string{"teşekkürler", "thanks", "güzel", "nice"}

var pricePattern = regexp.MustCompile(`(?i)\d+[.,]\d+\s*(tl|₺|usd|\$|eur|€)`)
