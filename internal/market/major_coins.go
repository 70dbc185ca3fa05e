package market

// majorCoins pins the highest market-cap tickers to their CoinGecko ids so
// that they never collide with obscure coins sharing the same symbol.
var majorCoins = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"usdt":  "tether",
	"usdc":  "usd-coin",
	"bnb":   "binancecoin",
	"xrp":   "ripple",
	"sol":   "solana",
	"ada":   "cardano",
	"doge":  "dogecoin",
	"trx":   "tron",
	"dot":   "polkadot",
	"matic": "matic-network",
	"dai":   "dai",
	"ltc":   "litecoin",
	"shib":  "shiba-inu",
	"avax":  "avalanche-2",
	"uni":   "uniswap",
	"link":  "chainlink",
	"atom":  "cosmos",
	"xlm":   "stellar",
	"near":  "near",
	"algo":  "algorand",
	"icp":   "internet-computer",
	"vet":   "vechain",
	"fil":   "filecoin",
	"aave":  "aave",
	"sand":  "the-sandbox",
	"mana":  "decentraland",
	"grt":   "the-graph",
	"axs":   "axie-infinity",
	"neo":   "neo",
	"mkr":   "maker",
	"egld":  "elrond-erd-2",
	"theta": "theta-token",
	"ftm":   "fantom",
	"xtz":   "tezos",
	"flow":  "flow",
	"kcs":   "kucoin-shares",
	"hbar":  "hedera-hashgraph",
	"eos":   "eos",
	"cake":  "pancakeswap-token",
	"xmr":   "monero",
	"rune":  "thorchain",
	"waves": "waves",
	"qdx":   "quidax",
	"comp":  "compound-governance-token",
	"zec":   "zcash",
	"enj":   "enjincoin",
	"dash":  "dash",
	"celo":  "celo",

	"apt":   "aptos",
	"arb":   "arbitrum",
	"op":    "optimism",
	"sui":   "sui",
	"inj":   "injective-protocol",
	"blur":  "blur",
	"pepe":  "pepe",
	"sei":   "sei-network",
	"stx":   "blockstack",
	"cfx":   "conflux-token",
	"kava":  "kava",
	"gala":  "gala",
	"rndr":  "render-token",
	"ldo":   "lido-dao",
	"imx":   "immutable-x",
	"1inch": "1inch",
	"ant":   "aragon",
	"api3":  "api3",
	"ar":    "arweave",
	"audio": "audius",
	"bal":   "balancer",
	"band":  "band-protocol",
	"bat":   "basic-attention-token",
	"btt":   "bittorrent",
	"cel":   "celsius-degree-token",
	"chz":   "chiliz",
	"crv":   "curve-dao-token",
	"cvc":   "civic",
	"dag":   "constellation-labs",
	"dent":  "dent",
	"dydx":  "dydx",
	"eng":   "engine",
	"fet":   "fetch-ai",
	"ftt":   "ftx-token",
	"glm":   "golem",
	"gmx":   "gmx",
	"gtc":   "gitcoin",
	"hnt":   "helium",
	"hot":   "holotoken",
	"ilv":   "illuvium",
	"jasmy": "jasmycoin",
	"knc":   "kyber-network-crystal",
	"lrc":   "loopring",
	"mask":  "mask-network",
	"mina":  "mina-protocol",
	"ocean": "ocean-protocol",
	"omg":   "omisego",
	"perp":  "perpetual-protocol",
	"qnt":   "quant-network",
	"ren":   "republic-protocol",
	"rlc":   "iexec-rlc",
	"rose":  "oasis-network",
	"rsr":   "reserve-rights-token",
	"sfp":   "safepal",
	"skl":   "skale",
	"snx":   "havven",
	"storj": "storj",
	"sushi": "sushi",
	"syn":   "synapse-2",
	"sys":   "syscoin",
	"tlm":   "alien-worlds",
	"torn":  "tornado-cash",
	"tribe": "tribe-2",
	"tusd":  "true-usd",
	"uma":   "uma",
	"unfi":  "unifi-protocol-dao",
	"wtc":   "waltonchain",
	"xvg":   "verge",
	"yfi":   "yearn-finance",
	"ygg":   "yield-guild-games",
	"zil":   "zilliqa",
	"zrx":   "0x",
}
