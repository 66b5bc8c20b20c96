package chain

// ABI fragments for the two marketplace contracts, limited to the surface
// the broker touches.

const masterNFTABI = `[
	{
		"type": "function",
		"name": "mintAsset",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "uri", "type": "string"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "approve",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "tokenId", "type": "uint256"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "ownerOf",
		"stateMutability": "view",
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"type": "function",
		"name": "tokenURI",
		"stateMutability": "view",
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"outputs": [{"name": "", "type": "string"}]
	},
	{
		"type": "function",
		"name": "balanceOf",
		"stateMutability": "view",
		"inputs": [{"name": "owner", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "tokenOfOwnerByIndex",
		"stateMutability": "view",
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "index", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "event",
		"name": "AssetMinted",
		"anonymous": false,
		"inputs": [
			{"name": "tokenId", "type": "uint256", "indexed": true},
			{"name": "owner", "type": "address", "indexed": true},
			{"name": "tokenURI", "type": "string", "indexed": false}
		]
	}
]`

const marketplaceABI = `[
	{
		"type": "function",
		"name": "listAsset",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "makeBid",
		"stateMutability": "payable",
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "acceptBid",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "tokenId", "type": "uint256"},
			{"name": "buyer", "type": "address"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "bidsForAsset",
		"stateMutability": "view",
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"outputs": [
			{
				"name": "",
				"type": "tuple[]",
				"components": [
					{"name": "bidder", "type": "address"},
					{"name": "amount", "type": "uint256"}
				]
			}
		]
	}
]`
