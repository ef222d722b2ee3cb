package quickaction

import (
	"context"
	"fmt"
	"time"
)

const CalculatorHelp = "I can help you with calculations! Just type your math expression like '2 + 2' or '(3 + 4) * 2' and I'll calculate it for you."

const newsUnavailable = "I'm unable to fetch news at the moment. Please try again later."

var Jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"Why did the scarecrow win an award? He was outstanding in his field!",
	"Why don't eggs tell jokes? They'd crack each other up!",
	"What do you call a fake noodle? An impasta!",
	"Why did the math book look so sad? Because it had too many problems!",
	"What do you call a bear with no teeth? A gummy bear!",
	"Why don't some couples go to the gym? Because some relationships don't work out!",
	"What do you call a pile of cats? A meow-ntain!",
}

var Headlines = []string{
	"Latest technology breakthrough: AI systems now achieve 99% accuracy in medical diagnosis.",
	"Space exploration: New Mars rover discovers evidence of ancient water systems.",
	"Climate update: Global renewable energy capacity increased by 50% this year.",
	"Science news: Scientists successfully create artificial photosynthesis system.",
	"Tech industry: Major breakthrough in quantum computing announced by leading research lab.",
}

// CurrentTime formats now as en-US 12-hour time and long-form date.
func CurrentTime(now time.Time) string {
	return fmt.Sprintf("The current time is %s on %s.",
		now.Format("03:04:05 PM"),
		now.Format("Monday, January 2, 2006"))
}

// LatestNews fetches one headline and wraps it for display.
func LatestNews(ctx context.Context, news NewsProvider) string {
	headline, err := news.Headline(ctx)
	if err != nil || headline == "" {
		return newsUnavailable
	}
	return "Here are the latest news headlines: " + headline
}
