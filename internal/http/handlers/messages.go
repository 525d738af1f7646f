package handlers

import (
	"context"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"rakta/internal/dashboard"
	"rakta/internal/domain"
	"rakta/internal/middleware"
)

const (
	msgDonationThanks = "Thank you for your donation of %[1]sml for %[2]s!"
	msgNever          = "never"
)

// notificationMessages holds the display text per refresh step. The service
// reports which step failed; wording belongs to the response.
var notificationMessages = map[string]string{
	dashboard.StepSeries: "Failed to load donation activity.",
	dashboard.StepTotal:  "Failed to load lives saved.",
}

var messages = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(key, en, ne, hi string) {
		_ = b.SetString(language.English, key, en)
		_ = b.SetString(language.Nepali, key, ne)
		_ = b.SetString(language.Hindi, key, hi)
	}
	set(msgDonationThanks,
		msgDonationThanks,
		"%[2]s को लागि %[1]sml रक्तदान गर्नुभएकोमा धन्यवाद!",
		"%[2]s के लिए %[1]sml रक्तदान करने के लिए धन्यवाद!")
	set(msgNever, msgNever, "कहिल्यै होइन", "कभी नहीं")
	set(notificationMessages[dashboard.StepSeries],
		notificationMessages[dashboard.StepSeries],
		"रक्तदान गतिविधि लोड गर्न सकिएन।",
		"रक्तदान गतिविधि लोड नहीं हो सकी।")
	set(notificationMessages[dashboard.StepTotal],
		notificationMessages[dashboard.StepTotal],
		"बचाइएका जीवनहरूको संख्या लोड गर्न सकिएन।",
		"बचाए गए जीवनों की संख्या लोड नहीं हो सकी।")
	return b
}()

func printer(ctx context.Context) *message.Printer {
	return message.NewPrinter(middleware.LanguageFromContext(ctx), message.Catalog(messages))
}

func donationThanks(p *message.Printer, amountML int, bt domain.BloodType) string {
	return p.Sprintf(msgDonationThanks, strconv.Itoa(amountML), string(bt))
}

// localizeNotifications rewrites messages for steps with a catalog entry
// and leaves anything else as the service wrote it.
func localizeNotifications(p *message.Printer, notes []dashboard.Notification) []dashboard.Notification {
	out := make([]dashboard.Notification, 0, len(notes))
	for _, n := range notes {
		if key, ok := notificationMessages[n.Kind]; ok {
			n.Message = p.Sprintf(key)
		}
		out = append(out, n)
	}
	return out
}
