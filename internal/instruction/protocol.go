package instruction

import "github.com/spachava753/webmall-eval/internal/models"

const (
	exampleOffer1 = "/product/tp-link-ha100-bluetooth-nfc-music-receiver-provides-wireless-connectivity-to-your-stereo/"
	exampleOffer2 = "/product/spire-usb-2-0-type-a-cable-male-to-male-1-metre/"
	exampleOffer3 = "/product/sandberg-usb-c-pd-to-lightning-cable-braided-1-meter-white/"
)

// exampleSubmission is shared by both protocol texts.
func exampleSubmission(s models.Sites) string {
	return "Example submission:\n" +
		"Offer1: " + s.Shop1URL + exampleOffer1 +
		"###Offer2: " + s.Shop3URL + exampleOffer2 +
		"###Offer3: " + s.Shop2URL + exampleOffer3
}

// SolutionPageProtocol is the canonical passage telling the agent to submit
// its result through the solution page form.
func SolutionPageProtocol(s models.Sites) string {
	return "After solving the task, submit the final result by first navigating to this page:\n\n" +
		"Solution page: " + s.FrontendURL + "\n\n" +
		"Then fill the final results into the text field on the solution page and press the \"Submit Final Result\" button.\n\n" +
		"If the result is one or more product offers enter their exact full URL(s) into the text field separated by three ### characters.\n" +
		exampleSubmission(s) + "\n\n" +
		"If the result is any other kind of value(s), input the value(s) into the text field.\n\n" +
		"If there is no result to return after completion of the task, simply enter \"Done\" into the text field.\n\n" +
		"Do not forget to press the \"Submit Final Result\" button in all cases!"
}

// FinalMessageProtocol asks the agent to report its result in its final
// message.
func FinalMessageProtocol(s models.Sites) string {
	return "If a store page does not load, try refreshing it up to three times. " +
		"If the final result is one or more product offers submit their exact full URL(s) to the user in your final message. " +
		"Do not put any other URLs apart from your final result URLs into your final answer!\n" +
		exampleSubmission(s) + "\n\n" +
		"If the final result is any other kind of value(s), submit these values.\n\n" +
		"If there is no result to return after completion of the task, simply answer \"Done\" in your final message."
}
