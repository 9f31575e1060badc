package bot

const (
	menuGameInfo = "ℹ️ Game Info"
	menuBet      = "🎯 Bet"
	menuReveal   = "🔓 Reveal"
	menuResult   = "🏆 Result"
	menuHistory  = "📜 History"
	menuAnalysis = "📊 Analysis"
	menuBalance  = "💰 Balance"
	menuMainHelp = "📖 Help"
	menuAbout    = "©️ About"

	aboutMessage = "*Made with ❤️ by* [@DrDelphi](https://t.me/DrDelphi)"

	historyPageSize = 5
	hotNumbers      = 5
	trendDays       = 7
	quickPickSize   = 5

	cbPEM        = "PEM"
	cbConnect    = "CONNECT"
	cbDisconnect = "DISCONNECT"
	cbSubmit     = "SUBMIT"
	cbClear      = "CLEAR"
	cbSeed       = "SEED"
	cbQuickPick  = "QP"
	cbRefreshBet = "BET"
	cbReveal     = "R:"
	cbHistory    = "H:"
)

var (
	helpMessage = "`DISCLAIMER !`\n" +
		"\n" +
		"🔴 All prizes are considered friend gifts.\n" +
		"🟡 This bot is in no way sponsored, endorsed or administered by the operators of the blockchain it uses.\n" +
		"🟣 Must be 18 years old or older to play!\n" +
		"\n" +
		"`Instructions`\n" +
		"\n" +
		"This is a commit-reveal lottery bot that interacts with a smart contract.\n\n" +
		"The bot generates a wallet for you from which you place bets and where you receive the rewards.\n\n" +
		"Every round has three phases. During `commitment` you pick numbers from 000 to 999 and place a bet; " +
		"only a hash of your numbers and your secret seed goes on chain. During `reveal` you publish the numbers and the seed. " +
		"During `settlement` the contract draws the winning number.\n\n" +
		"`Commands`\n" +
		"/pick 12 45 12 - select numbers, repeats raise the multiplier\n" +
		"/mult 12 5 - set the multiplier of a number\n" +
		"/unpick 12 - remove a number\n" +
		"/quickpick 5 - select random numbers\n" +
		"/seed 123 - set your seed, or /seed for a random one\n" +
		"/clear - empty the slip\n" +
		"/submit - place the bet\n" +
		"/reveal - reveal your pending bets\n" +
		"/settle - ask the contract to settle the round\n" +
		"/result 7 - show the result of a round\n" +
		"/history won 2 - browse your bets\n" +
		"/analysis - your statistics\n" +
		"/balance - your wallet balance\n" +
		"/connect, /disconnect - connect or disconnect your wallet\n\n" +
		"You can watch the game's progress on @LuckeeBot\n" +
		"\n" +
		"🍀 Good luck!"
)
